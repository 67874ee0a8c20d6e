package content

import (
	"encoding/json"

	"github.com/engmhisham/utg-api/database/models"
)

var publicStatuses = []models.Status{models.StatusActive, models.StatusPublished}

var (
	// ActiveStatuses 展示型实体的状态集合
	ActiveStatuses = []models.Status{models.StatusActive, models.StatusInactive}
	// EditorialStatuses 编辑型实体的状态集合
	EditorialStatuses = []models.Status{models.StatusDraft, models.StatusPublished, models.StatusArchived}
)

type identified interface {
	GetID() string
}

type mediaCarrier interface {
	MediaFields() map[string]string
}

type baseCarrier interface {
	GetBase() *models.Base
}

func idOf(e interface{}) string {
	if v, ok := e.(identified); ok {
		return v.GetID()
	}
	return ""
}

func baseOf(e interface{}) *models.Base {
	if v, ok := e.(baseCarrier); ok {
		return v.GetBase()
	}
	return nil
}

func mediaFields(e interface{}) map[string]string {
	if v, ok := e.(mediaCarrier); ok {
		return v.MediaFields()
	}
	return nil
}

// toMap 序列化为通用 map，作为审计的旧值快照
func toMap(e interface{}) map[string]interface{} {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package models

import (
	"gorm.io/datatypes"
)

// MediaUsage 记录某个内容实体的某个字段引用了该媒体
type MediaUsage struct {
	ModuleType string `json:"moduleType"`
	ModuleID   string `json:"moduleId"`
	Field      string `json:"field"`
}

// FocalPoint 裁剪焦点，取值 0..1
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Media 媒体资源目录记录，Path 是全局唯一的关联键
type Media struct {
	Base
	Filename     string `gorm:"size:255;not null" json:"filename"`
	OriginalName string `gorm:"size:255;not null" json:"originalName"`
	MimeType     string `gorm:"size:127;not null" json:"mimeType"`
	Path         string `gorm:"size:512;not null;uniqueIndex" json:"path"`
	Size         int64  `gorm:"not null;default:0" json:"size"`
	Width        *int   `json:"width"`
	Height       *int   `json:"height"`

	Alt         Localized `gorm:"embedded;embeddedPrefix:alt_" json:"alt"`
	Title       Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Caption     Localized `gorm:"embedded;embeddedPrefix:caption_" json:"caption"`
	Description Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`

	Credits    string                          `gorm:"size:255" json:"credits"`
	License    string                          `gorm:"size:128" json:"license"`
	FocalPoint datatypes.JSONType[FocalPoint]  `json:"focalPoint"`
	Tags       datatypes.JSONSlice[string]     `json:"tags"`
	Category   string                          `gorm:"size:64;index;not null;default:general" json:"category"`
	Usage      datatypes.JSONSlice[MediaUsage] `gorm:"column:usage" json:"usage"`

	URL string `gorm:"-" json:"url"`
}

// InUse 是否仍被内容引用
func (m *Media) InUse() bool {
	return len(m.Usage) > 0
}

// HasUsage 是否已包含指定引用
func (m *Media) HasUsage(u MediaUsage) bool {
	for _, existing := range m.Usage {
		if existing == u {
			return true
		}
	}
	return false
}

// Package audit 审计日志的写入与查询
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/utils/logger"
)

// ErrNotFound 审计记录不存在
var ErrNotFound = errors.New("audit log not found")

// Recorder 内容服务依赖的审计写入接口
type Recorder interface {
	Record(ctx context.Context, action models.AuditAction, entity, entityID string, oldValues, newValues interface{})
}

// Query 审计日志查询条件
type Query struct {
	base.ListOptions
	Entity   string
	EntityID string
	Action   string
	UserID   string
	From     *time.Time
	To       *time.Time
}

// Service 审计服务
type Service struct {
	repo *base.Repository[models.AuditLog]
	log  zerolog.Logger
}

// NewService 创建审计服务
func NewService(db database.Provider) *Service {
	return &Service{
		repo: base.NewRepository[models.AuditLog](db),
		log:  logger.Named("audit"),
	}
}

// Record 写入一条审计记录，失败只记录日志
func (s *Service) Record(ctx context.Context, action models.AuditAction, entity, entityID string, oldValues, newValues interface{}) {
	actor := ActorFrom(ctx)
	entry := &models.AuditLog{
		UserID:    actor.UserID,
		Username:  actor.Username,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		OldValues: toJSON(oldValues),
		NewValues: toJSON(newValues),
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	// 审计不随请求取消
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error().Err(err).
			Str("action", string(action)).
			Str("entity", entity).
			Str("entity_id", entityID).
			Msg("failed to write audit log")
	}
}

// List 分页查询
func (s *Service) List(ctx context.Context, q Query) (*base.Page[models.AuditLog], error) {
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	return s.repo.List(ctx, q.ListOptions, func(db *gorm.DB) *gorm.DB {
		if q.Entity != "" {
			db = db.Where("entity = ?", q.Entity)
		}
		if q.EntityID != "" {
			db = db.Where("entity_id = ?", q.EntityID)
		}
		if q.Action != "" {
			db = db.Where("action = ?", q.Action)
		}
		if q.UserID != "" {
			db = db.Where("user_id = ?", q.UserID)
		}
		if q.From != nil {
			db = db.Where("created_at >= ?", *q.From)
		}
		if q.To != nil {
			db = db.Where("created_at <= ?", *q.To)
		}
		return db
	})
}

// Get 获取单条记录
func (s *Service) Get(ctx context.Context, id string) (*models.AuditLog, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

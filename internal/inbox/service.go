// Package inbox 前台联系表单和邮件订阅
package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/content"
	"github.com/engmhisham/utg-api/utils"
	"github.com/engmhisham/utg-api/utils/logger"
)

// ContactInput 联系表单
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

// SubscribeInput 订阅请求
type SubscribeInput struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Language string `json:"language" binding:"omitempty,oneof=en ar"`
	Source   string `json:"source" binding:"omitempty,max=64"`
}

// Query 列表查询
type Query struct {
	base.ListOptions
	Status string
	Search string
}

// Service 收件箱服务
type Service struct {
	messages *base.Repository[models.ContactMessage]
	subs     *base.Repository[models.Subscription]
	audit    audit.Recorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewService 创建收件箱服务
func NewService(db database.Provider, recorder audit.Recorder) *Service {
	return &Service{
		messages: base.NewRepository[models.ContactMessage](db),
		subs:     base.NewRepository[models.Subscription](db),
		audit:    recorder,
		now:      time.Now,
		log:      logger.Named("inbox"),
	}
}

// Submit 保存联系消息
func (s *Service) Submit(ctx context.Context, in ContactInput, ip string) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    models.MessageNew,
		IPAddress: ip,
	}
	if msg.Name == "" || msg.Message == "" {
		return nil, fmt.Errorf("%w: name and message are required", content.ErrInvalid)
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.log.Info().Str("id", msg.ID).Str("email", utils.SanitizeLogValue(msg.Email, 64)).Msg("contact message received")
	return msg, nil
}

// ListMessages 分页查询联系消息
func (s *Service) ListMessages(ctx context.Context, q Query) (*base.Page[models.ContactMessage], error) {
	if q.SortBy != "created_at" && q.SortBy != "status" {
		q.SortBy = "created_at"
	}
	return s.messages.List(ctx, q.ListOptions, func(db *gorm.DB) *gorm.DB {
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			like := base.Contains(strings.ToLower(search))
			db = db.Where("LOWER(name) LIKE ?"+base.LikeEscape+" OR LOWER(email) LIKE ?"+base.LikeEscape+
				" OR LOWER(subject) LIKE ?"+base.LikeEscape, like, like, like)
		}
		return db
	})
}

// GetMessage 获取联系消息
func (s *Service) GetMessage(ctx context.Context, id string) (*models.ContactMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, content.ErrNotFound
	}
	return msg, nil
}

// SetMessageStatus 修改消息状态，首次标记已读时记录时间
func (s *Service) SetMessageStatus(ctx context.Context, id string, status models.MessageStatus) (*models.ContactMessage, error) {
	switch status {
	case models.MessageNew, models.MessageRead, models.MessageArchived:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", content.ErrInvalid, status)
	}
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	values := map[string]interface{}{"status": status}
	if status == models.MessageRead && msg.ReadAt == nil {
		values["read_at"] = s.now()
	}
	if _, err := s.messages.UpdateColumns(ctx, []string{id}, values); err != nil {
		return nil, err
	}
	s.record(ctx, models.AuditUpdate, "contact_messages", id, map[string]interface{}{"status": msg.Status}, values)
	return s.GetMessage(ctx, id)
}

// DeleteMessage 删除联系消息
func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, models.AuditDelete, "contact_messages", id, msg, nil)
	return nil
}

// Subscribe 订阅，已退订的邮箱重新激活；返回是否新建
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*models.Subscription, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	lang, ok := models.ParseLanguage(in.Language)
	if !ok {
		lang = models.LangEN
	}

	existing, err := s.subs.FirstByCondition(ctx, "email = ?", email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Status == models.SubscriptionActive {
			return existing, false, nil
		}
		_, err := s.subs.UpdateColumns(ctx, []string{existing.ID}, map[string]interface{}{
			"status":          models.SubscriptionActive,
			"language":        lang,
			"unsubscribed_at": nil,
		})
		if err != nil {
			return nil, false, err
		}
		sub, err := s.subs.GetByID(ctx, existing.ID)
		return sub, false, err
	}

	sub := &models.Subscription{
		Email:    email,
		Status:   models.SubscriptionActive,
		Language: lang,
		Source:   in.Source,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// Unsubscribe 退订
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	sub, err := s.subs.FirstByCondition(ctx, "email = ?", email)
	if err != nil {
		return err
	}
	if sub == nil {
		return content.ErrNotFound
	}
	if sub.Status == models.SubscriptionUnsubscribed {
		return nil
	}
	_, err = s.subs.UpdateColumns(ctx, []string{sub.ID}, map[string]interface{}{
		"status":          models.SubscriptionUnsubscribed,
		"unsubscribed_at": s.now(),
	})
	return err
}

// ListSubscriptions 分页查询订阅
func (s *Service) ListSubscriptions(ctx context.Context, q Query) (*base.Page[models.Subscription], error) {
	if q.SortBy != "created_at" && q.SortBy != "email" {
		q.SortBy = "created_at"
	}
	return s.subs.List(ctx, q.ListOptions, func(db *gorm.DB) *gorm.DB {
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			db = db.Where("LOWER(email) LIKE ?"+base.LikeEscape, base.Contains(strings.ToLower(search)))
		}
		return db
	})
}

// DeleteSubscription 删除订阅
func (s *Service) DeleteSubscription(ctx context.Context, id string) error {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return content.ErrNotFound
	}
	if _, err := s.subs.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, models.AuditDelete, "subscriptions", id, sub, nil)
	return nil
}

func (s *Service) record(ctx context.Context, action models.AuditAction, entity, id string, oldValues, newValues interface{}) {
	if s.audit != nil {
		s.audit.Record(ctx, action, entity, id, oldValues, newValues)
	}
}

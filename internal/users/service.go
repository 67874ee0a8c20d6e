// Package users 后台用户管理
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/internal/audit"
	cryptopackage "github.com/engmhisham/utg-api/utils/crypto"
	"github.com/engmhisham/utg-api/utils/logger"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrConflict   = errors.New("username or email already in use")
	ErrInvalid    = errors.New("invalid user input")
	ErrDeleteSelf = errors.New("cannot delete the current user")
)

const minPasswordLength = 8

// CreateInput 创建用户
type CreateInput struct {
	Username string      `json:"username" binding:"required,min=3,max=64"`
	Email    string      `json:"email" binding:"required,email,max=255"`
	Password string      `json:"password" binding:"required,min=8,max=128"`
	Role     models.Role `json:"role" binding:"required,oneof=admin content_support"`
}

// UpdateInput 更新用户，nil 字段保持不变
type UpdateInput struct {
	Username *string      `json:"username" binding:"omitempty,min=3,max=64"`
	Email    *string      `json:"email" binding:"omitempty,email,max=255"`
	Password *string      `json:"password" binding:"omitempty,min=8,max=128"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=admin content_support"`
	IsActive *bool        `json:"isActive"`
}

// Query 用户列表查询
type Query struct {
	base.ListOptions
	Role   string
	Search string
}

// Service 用户服务
type Service struct {
	repo  *base.Repository[models.User]
	audit audit.Recorder
	hash  func(string) (string, error)
	log   zerolog.Logger
}

// NewService 创建用户服务
func NewService(db database.Provider, recorder audit.Recorder) *Service {
	return &Service{
		repo:  base.NewRepository[models.User](db),
		audit: recorder,
		hash:  cryptopackage.HashPassword,
		log:   logger.Named("users"),
	}
}

// List 分页查询
func (s *Service) List(ctx context.Context, q Query) (*base.Page[models.User], error) {
	switch q.SortBy {
	case "username", "email", "created_at", "last_login_at":
	default:
		q.SortBy = "created_at"
	}
	return s.repo.List(ctx, q.ListOptions, func(db *gorm.DB) *gorm.DB {
		if q.Role != "" {
			db = db.Where("role = ?", q.Role)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			like := base.Contains(strings.ToLower(search))
			db = db.Where("LOWER(username) LIKE ?"+base.LikeEscape+" OR LOWER(email) LIKE ?"+base.LikeEscape, like, like)
		}
		return db
	})
}

// Get 按 ID 获取
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// GetByEmail 按邮箱查找，不存在时返回 nil, nil
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FirstByCondition(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// Create 创建用户
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, in.Role)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLength)
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hashed,
		Role:     in.Role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.record(ctx, models.AuditCreate, u.ID, nil, u)
	s.log.Info().Str("id", u.ID).Str("username", u.Username).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

// Update 更新用户
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := *u

	values := map[string]interface{}{}
	if in.Username != nil {
		values["username"] = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		values["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, *in.Role)
		}
		values["role"] = *in.Role
	}
	if in.IsActive != nil {
		values["is_active"] = *in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLength)
		}
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		values["password"] = hashed
	}
	if len(values) == 0 {
		return u, nil
	}

	if _, err := s.repo.UpdateColumns(ctx, []string{id}, values); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, models.AuditUpdate, id, &old, updated)
	return updated, nil
}

// Delete 删除用户，不能删除当前登录用户
func (s *Service) Delete(ctx context.Context, id string) error {
	if audit.ActorFrom(ctx).UserID == id {
		return ErrDeleteSelf
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, models.AuditDelete, id, u, nil)
	return nil
}

// TouchLogin 记录最近登录时间
func (s *Service) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.repo.UpdateColumns(ctx, []string{id}, map[string]interface{}{"last_login_at": at})
	return err
}

// EnsureAdmin 不存在任何管理员时创建初始管理员，返回是否创建
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	exists, err := s.repo.Exists(ctx, "role = ?", models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if password == "" {
		return false, fmt.Errorf("%w: admin password is required to seed the first admin", ErrInvalid)
	}
	_, err = s.Create(ctx, CreateInput{Username: username, Email: email, Password: password, Role: models.RoleAdmin})
	return err == nil, err
}

func (s *Service) record(ctx context.Context, action models.AuditAction, id string, oldValues, newValues interface{}) {
	if s.audit != nil {
		s.audit.Record(ctx, action, "users", id, oldValues, newValues)
	}
}

// Package auth 后台登录、令牌签发与刷新
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/users"
	cryptopackage "github.com/engmhisham/utg-api/utils/crypto"
	"github.com/engmhisham/utg-api/utils/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is disabled")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

const refreshKeyPrefix = "auth:refresh:"

// LoginInput 登录请求
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	User *models.User `json:"user"`
	TokenPair
}

// refreshSession 存在缓存里的刷新令牌会话
type refreshSession struct {
	UserID string `json:"userId"`
}

// LoginService 登录服务
type LoginService struct {
	users    *users.Service
	jwt      *JWTService
	sessions cache.Provider
	audit    audit.Recorder
	log      zerolog.Logger
}

// NewLoginService 创建新的登录服务
func NewLoginService(userSvc *users.Service, jwtService *JWTService, sessions cache.Provider, recorder audit.Recorder) *LoginService {
	return &LoginService{
		users:    userSvc,
		jwt:      jwtService,
		sessions: sessions,
		audit:    recorder,
		log:      logger.Named("auth"),
	}
}

// JWT 返回令牌服务，中间件用于校验访问令牌
func (s *LoginService) JWT() *JWTService {
	return s.jwt
}

// ValidateCredentials 验证用户凭据
func (s *LoginService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := cryptopackage.VerifyPassword(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// Login 执行登录操作
func (s *LoginService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Warn().Str("email", strings.ToLower(in.Email)).Msg("login failed")
		}
		return nil, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.jwt.now()
	if err := s.users.TouchLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login time")
	}
	user.LastLoginAt = &now

	actor := audit.ActorFrom(ctx)
	actor.UserID, actor.Username, actor.Role = user.ID, user.Username, string(user.Role)
	s.record(audit.WithActor(ctx, actor), models.AuditLogin, user.ID)

	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// Refresh 用刷新令牌换取新令牌对，旧刷新令牌立即失效
func (s *LoginService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}
	key := refreshKeyPrefix + refreshToken

	var session refreshSession
	if err := s.sessions.Get(ctx, key, &session); err != nil {
		if cache.IsCacheMiss(err) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("failed to load refresh session: %w", err)
	}
	if err := s.sessions.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.users.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// Logout 作废刷新令牌
func (s *LoginService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		if err := s.sessions.Delete(ctx, refreshKeyPrefix+refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	s.record(ctx, models.AuditLogout, audit.ActorFrom(ctx).UserID)
	return nil
}

// Me 返回当前用户
func (s *LoginService) Me(ctx context.Context) (*models.User, error) {
	id := audit.ActorFrom(ctx).UserID
	if id == "" {
		return nil, ErrInvalidToken
	}
	return s.users.Get(ctx, id)
}

func (s *LoginService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.jwt.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	session := refreshSession{UserID: user.ID}
	if err := s.sessions.Set(ctx, refreshKeyPrefix+pair.RefreshToken, session, s.jwt.config.RefreshExpiresIn); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return pair, nil
}

func (s *LoginService) record(ctx context.Context, action models.AuditAction, userID string) {
	if s.audit != nil {
		s.audit.Record(ctx, action, "auth", userID, nil, nil)
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/auth"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
)

// TokenParser 校验访问令牌
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// Auth 要求有效的 Bearer 访问令牌
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "No Authorization request header")
			return
		}
		token, ok := bearerToken(authHeader)
		if !ok {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unsupported authentication scheme")
			return
		}
		if err := authenticate(c, parser, token); err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Next()
	}
}

// OptionalAuth 携带令牌时解析身份，未携带时按匿名处理，令牌无效时拒绝
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(authHeader)
		if !ok {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Unsupported authentication scheme")
			return
		}
		if err := authenticate(c, parser, token); err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func authenticate(c *gin.Context, parser TokenParser, token string) error {
	claims, err := parser.ParseToken(token)
	if err != nil {
		return err
	}

	c.Set(ContextUserIDKey, claims.Subject)
	c.Set(ContextUsernameKey, claims.Username)
	c.Set(ContextRoleKey, string(claims.Role))

	ctx := c.Request.Context()
	actor := audit.ActorFrom(ctx)
	actor.UserID = claims.Subject
	actor.Username = claims.Username
	actor.Role = string(claims.Role)
	if actor.IP == "" {
		actor.IP = c.ClientIP()
		actor.UserAgent = c.Request.UserAgent()
	}
	c.Request = c.Request.WithContext(audit.WithActor(ctx, actor))
	return nil
}

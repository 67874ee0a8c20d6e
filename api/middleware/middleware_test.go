package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(strings.Repeat("k", 32), time.Minute, time.Hour)
	require.NoError(t, err)
	return svc
}

func tokenFor(t *testing.T, svc *auth.JWTService, role models.Role) string {
	t.Helper()
	u := &models.User{Username: "tester", Role: role}
	u.ID = "user-1"
	token, _, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwtSvc := newJWT(t)
	r := gin.New()
	r.Use(RequestContext())
	r.GET("/me", Auth(jwtSvc), func(c *gin.Context) {
		actor := audit.ActorFrom(c.Request.Context())
		c.String(http.StatusOK, actor.UserID+"|"+actor.Role)
	})

	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/me", "garbage").Code)

	w := perform(r, "GET", "/me", tokenFor(t, jwtSvc, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1|admin", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestOptionalAuth(t *testing.T) {
	jwtSvc := newJWT(t)
	r := gin.New()
	r.GET("/", OptionalAuth(jwtSvc), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserIDKey))
	})

	w := perform(r, "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = perform(r, "GET", "/", tokenFor(t, jwtSvc, models.RoleContentSupport))
	assert.Equal(t, "user-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, perform(r, "GET", "/", "bad").Code)
}

func TestRequireRole(t *testing.T) {
	jwtSvc := newJWT(t)
	r := gin.New()
	r.DELETE("/x", Auth(jwtSvc), AdminOnly(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/x", Auth(jwtSvc), Staff(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	editor := tokenFor(t, jwtSvc, models.RoleContentSupport)
	admin := tokenFor(t, jwtSvc, models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, perform(r, "DELETE", "/x", editor).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, "DELETE", "/x", admin).Code)
	assert.Equal(t, http.StatusCreated, perform(r, "POST", "/x", editor).Code)
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(0.001, 2, time.Minute)
	defer rl.StopCleanup()

	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, "GET", "/", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, "GET", "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, "GET", "/", "").Code)
	assert.True(t, rl.Allow("10.0.0.9"))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	perform(r, "GET", "/ping", "")
	w := perform(r, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodySize(4), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("POST", "/", strings.NewReader("too large body"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/users"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	svc   *LoginService
	users *users.Service
	user  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	userSvc := users.NewService(db, nil)
	u, err := userSvc.Create(context.Background(), users.CreateInput{
		Username: "editor", Email: "editor@example.com", Password: "password123", Role: models.RoleContentSupport,
	})
	require.NoError(t, err)

	jwtSvc, err := NewJWTService(testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	sessions, err := cache.NewMemory(cache.MemoryConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	return &fixture{
		svc:   NewLoginService(userSvc, jwtSvc, sessions, audit.NewService(db)),
		users: userSvc,
		user:  u,
	}
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	_, err := NewJWTService("short", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	u := &models.User{Username: "admin", Role: models.RoleAdmin}
	u.ID = "user-1"
	token, expiry, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewJWTService(strings.Repeat("z", 32), time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, LoginInput{Email: "editor@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := f.svc.Login(ctx, LoginInput{Email: "Editor@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	require.NotNil(t, res.User.LastLoginAt)

	claims, err := f.svc.JWT().ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, claims.Subject)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture(t)
	inactive := false
	_, err := f.users.Update(context.Background(), f.user.ID, users.UpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "editor@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestRefresh_Rotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginInput{Email: "editor@example.com", Password: "password123"})
	require.NoError(t, err)

	next, err := f.svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, next.RefreshToken)

	_, err = f.svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	require.NoError(t, f.svc.Logout(ctx, next.RefreshToken))
	_, err = f.svc.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Me(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)

	ctx := audit.WithActor(context.Background(), audit.Actor{UserID: f.user.ID})
	u, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "editor", u.Username)
}

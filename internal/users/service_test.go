package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/audit"
	cryptopackage "github.com/engmhisham/utg-api/utils/crypto"
)

var fastParams = cryptopackage.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newService(t *testing.T) *Service {
	t.Helper()
	s := NewService(dbtest.New(t), nil)
	s.hash = func(p string) (string, error) { return cryptopackage.HashPasswordWith(p, fastParams) }
	return s
}

func TestService_CreateAndUpdate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.Create(ctx, CreateInput{Username: "editor", Email: "Editor@Example.com", Password: "password123", Role: models.RoleContentSupport})
	require.NoError(t, err)
	assert.Equal(t, "editor@example.com", u.Email)
	assert.True(t, u.IsActive)

	ok, err := cryptopackage.VerifyPassword("password123", u.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Create(ctx, CreateInput{Username: "editor", Email: "other@example.com", Password: "password123", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Create(ctx, CreateInput{Username: "x", Email: "x@example.com", Password: "password123", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalid)

	role := models.RoleAdmin
	inactive := false
	updated, err := s.Update(ctx, u.ID, UpdateInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)

	short := "short"
	_, err = s.Update(ctx, u.ID, UpdateInput{Password: &short})
	assert.ErrorIs(t, err, ErrInvalid)

	found, err := s.GetByEmail(ctx, " EDITOR@example.com ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
}

func TestService_DeleteSelf(t *testing.T) {
	s := newService(t)
	u, err := s.Create(context.Background(), CreateInput{Username: "admin", Email: "a@example.com", Password: "password123", Role: models.RoleAdmin})
	require.NoError(t, err)

	ctx := audit.WithActor(context.Background(), audit.Actor{UserID: u.ID})
	assert.ErrorIs(t, s.Delete(ctx, u.ID), ErrDeleteSelf)

	require.NoError(t, s.Delete(context.Background(), u.ID))
	_, err = s.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_EnsureAdmin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.EnsureAdmin(ctx, "admin", "admin@example.com", "")
	assert.ErrorIs(t, err, ErrInvalid)

	created, err := s.EnsureAdmin(ctx, "admin", "admin@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureAdmin(ctx, "admin2", "admin2@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, created)
}

package site

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/internal/content"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/internal/reconcile"
	"github.com/engmhisham/utg-api/storage"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.New(t)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := media.NewStore(mediarepo.NewRepository(db), local, media.Options{})
	mem, err := cache.NewMemory(cache.MemoryConfig{MaxCost: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	return NewService(content.Deps{DB: db, Reconcile: reconcile.New(store)}, cache.NewLoader(mem, time.Minute))
}

func TestSettings_UpsertInvalidatesCache(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	all, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.UpsertSettings(ctx, []SettingInput{{Key: "phone", Value: "123"}, {Key: "email", Value: "a@b.c", Group: "contact"}})
	require.NoError(t, err)

	item, err := s.Setting(ctx, "email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", item.Value)
	assert.Equal(t, "contact", item.Group)

	_, err = s.UpsertSettings(ctx, []SettingInput{{Key: "phone", Value: "456"}})
	require.NoError(t, err)
	item, err = s.Setting(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "456", item.Value)

	require.NoError(t, s.DeleteSetting(ctx, "phone"))
	_, err = s.Setting(ctx, "phone")
	assert.ErrorIs(t, err, content.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSetting(ctx, "phone"), content.ErrNotFound)

	_, err = s.UpsertSettings(ctx, []SettingInput{{Key: " "}})
	assert.ErrorIs(t, err, content.ErrInvalid)
}

func TestSEOGeneral_Singleton(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	empty, err := s.SEOGeneral(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.ID)

	created, err := s.UpdateSEOGeneral(ctx, func(row *models.SEOGeneral) error {
		return json.Unmarshal([]byte(`{"siteName":{"en":"UTG"},"twitterHandle":"@utg"}`), row)
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := s.UpdateSEOGeneral(ctx, func(row *models.SEOGeneral) error {
		row.SiteName.AR = "يو تي جي"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := s.SEOGeneral(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UTG", got.SiteName.EN)
	assert.Equal(t, "يو تي جي", got.SiteName.AR)
	assert.Equal(t, "@utg", got.TwitterHandle)
}

func TestPageSEO_CacheFollowsWrites(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.PageSEO(ctx, "home")
	assert.ErrorIs(t, err, content.ErrNotFound)

	p := &models.PageSEO{Page: "Home", MetaTitle: models.Localized{EN: "Welcome"}}
	require.NoError(t, s.CreatePage(ctx, p))
	assert.Equal(t, "home", p.Page)

	got, err := s.PageSEO(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", got.MetaTitle.EN)

	_, err = s.UpdatePage(ctx, p.ID, func(row *models.PageSEO) error {
		row.MetaTitle.EN = "Hello"
		return nil
	})
	require.NoError(t, err)
	got, err = s.PageSEO(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.MetaTitle.EN)

	require.NoError(t, s.DeletePage(ctx, p.ID))
	_, err = s.PageSEO(ctx, "home")
	assert.ErrorIs(t, err, content.ErrNotFound)

	err = s.CreatePage(ctx, &models.PageSEO{Page: "  "})
	assert.ErrorIs(t, err, content.ErrInvalid)
}

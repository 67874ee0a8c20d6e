package media

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/storage"
)

type fixture struct {
	db      database.Provider
	store   *Store
	storage *storage.LocalStorage
	root    string
	tmp     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	local, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	db := dbtest.New(t)
	return &fixture{
		db:      db,
		store:   NewStore(mediarepo.NewRepository(db), local, Options{APIPrefix: "api", UploadPrefix: "uploads"}),
		storage: local,
		root:    root,
		tmp:     t.TempDir(),
	}
}

// writePNG 在临时目录生成 w x h 的 PNG
func (f *fixture) writePNG(t *testing.T, name string, w, h int) string {
	t.Helper()
	p := filepath.Join(f.tmp, name)
	out, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, out.Close())
	return p
}

func (f *fixture) upload(t *testing.T, category string) *models.Media {
	t.Helper()
	tmp := f.writePNG(t, "upload.png", 3, 2)
	m, err := f.store.Create(context.Background(), Upload{
		TempPath:     tmp,
		OriginalName: "photo.png",
		MimeType:     "image/png",
		Size:         128,
	}, Metadata{Category: category, Tags: []string{"hero"}})
	require.NoError(t, err)
	return m
}

func TestStore_Create(t *testing.T) {
	f := newFixture(t)
	tmp := f.writePNG(t, "a.png", 3, 2)

	m, err := f.store.Create(context.Background(), Upload{
		TempPath:     tmp,
		OriginalName: "a.png",
		MimeType:     "image/png",
		Size:         64,
	}, Metadata{Alt: models.Localized{EN: "alt", AR: "نص"}})
	require.NoError(t, err)

	assert.Regexp(t, `^general/[0-9a-f-]{36}\.png$`, m.Path)
	assert.Equal(t, "/uploads/"+m.Path, m.URL)
	require.NotNil(t, m.Width)
	require.NotNil(t, m.Height)
	assert.Equal(t, 3, *m.Width)
	assert.Equal(t, 2, *m.Height)
	assert.Empty(t, m.Usage)

	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err), "temp file should be moved")
	_, err = os.Stat(filepath.Join(f.root, filepath.FromSlash(m.Path)))
	assert.NoError(t, err)

	got, err := f.store.FindByPath(context.Background(), m.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alt", got.Alt.EN)
	assert.Equal(t, "نص", got.Alt.AR)
}

func TestStore_CreateUnprobeable(t *testing.T) {
	f := newFixture(t)
	tmp := filepath.Join(f.tmp, "doc.pdf")
	require.NoError(t, os.WriteFile(tmp, []byte("%PDF-1.4"), 0644))

	m, err := f.store.Create(context.Background(), Upload{
		TempPath: tmp, OriginalName: "doc.pdf", MimeType: "application/pdf", Size: 8,
	}, Metadata{Category: "Docs"})
	require.NoError(t, err)
	assert.Nil(t, m.Width)
	assert.Nil(t, m.Height)
	assert.Equal(t, "docs", m.Category)
}

func TestStore_CreateStorageError(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Create(context.Background(), Upload{
		TempPath:     filepath.Join(f.tmp, "missing.png"),
		OriginalName: "missing.png",
		MimeType:     "image/png",
	}, Metadata{})
	assert.ErrorIs(t, err, ErrStorage)

	page, err := f.store.List(context.Background(), mediarepo.Query{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestStore_CreateUnsupportedType(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Create(context.Background(), Upload{
		TempPath: "x", OriginalName: "x.svg", MimeType: "image/svg+xml",
	}, Metadata{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStore_UsageIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "blogs")
	u := models.MediaUsage{ModuleType: "blogs", ModuleID: "b1", Field: "coverImageUrl"}

	require.NoError(t, f.store.AddUsage(ctx, m.ID, u))
	require.NoError(t, f.store.AddUsage(ctx, m.ID, u))

	got, err := f.store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, got.Usage, 1)

	other := models.MediaUsage{ModuleType: "blogs", ModuleID: "b2", Field: "coverImageUrl"}
	require.NoError(t, f.store.RemoveUsage(ctx, m.ID, other))
	require.NoError(t, f.store.RemoveUsage(ctx, m.ID, u))
	require.NoError(t, f.store.RemoveUsage(ctx, m.ID, u))

	got, err = f.store.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Usage)

	assert.ErrorIs(t, f.store.AddUsage(ctx, "missing", u), ErrNotFound)
}

func TestStore_RemoveInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "brands")
	u := models.MediaUsage{ModuleType: "brands", ModuleID: "1", Field: "logoUrl"}
	require.NoError(t, f.store.AddUsage(ctx, m.ID, u))

	assert.ErrorIs(t, f.store.Remove(ctx, m.ID), ErrInUse)
	exists, err := f.storage.Exists(ctx, m.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, f.store.RemoveUsage(ctx, m.ID, u))
	require.NoError(t, f.store.Remove(ctx, m.ID))

	_, err = f.store.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err = f.storage.Exists(ctx, m.Path)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, f.store.Remove(ctx, m.ID), ErrNotFound)
}

func TestStore_RemoveMissingFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "general")
	require.NoError(t, f.storage.Delete(ctx, m.Path))

	require.NoError(t, f.store.Remove(ctx, m.ID))
	_, err := f.store.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveByURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "general")
	require.NoError(t, f.store.AddUsage(ctx, m.ID, models.MediaUsage{ModuleType: "clients", ModuleID: "c", Field: "logoUrl"}))

	// 被替换的资源即使仍有引用也会被删除
	require.NoError(t, f.store.RemoveByURL(ctx, "https://cms.example.com/api/uploads/"+m.Path))

	_, err := f.store.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err := f.storage.Exists(ctx, m.Path)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, f.store.RemoveByURL(ctx, "/uploads/general/none.png"))
}

func TestStore_ResolveURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "general")

	for _, raw := range []string{
		m.URL,
		"http://localhost:3000" + m.URL,
		"/api" + m.URL,
		m.Path,
	} {
		got, err := f.store.ResolveURL(ctx, raw)
		require.NoError(t, err, raw)
		require.NotNil(t, got, raw)
		assert.Equal(t, m.ID, got.ID)
	}

	got, err := f.store.ResolveURL(ctx, "https://images.unsplash.com/photo.jpg")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "general")

	credits := "Studio"
	tags := []string{"a", "b"}
	got, err := f.store.Update(ctx, m.ID, Patch{
		Title:      &models.Localized{EN: "Title", AR: "عنوان"},
		Credits:    &credits,
		FocalPoint: &models.FocalPoint{X: 0.25, Y: 0.75},
		Tags:       &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title.EN)
	assert.Equal(t, "Studio", got.Credits)
	assert.Equal(t, 0.25, got.FocalPoint.Data().X)
	assert.Equal(t, []string{"a", "b"}, []string(got.Tags))
	assert.Equal(t, m.Path, got.Path)

	_, err = f.store.Update(ctx, "missing", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Open(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.upload(t, "general")

	rc, contentType, err := f.store.Open(ctx, m.Path)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", contentType)

	_, _, err = f.store.Open(ctx, "general/none.png")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.store.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SweepOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orphan := f.upload(t, "general")
	used := f.upload(t, "general")
	require.NoError(t, f.store.AddUsage(ctx, used.ID, models.MediaUsage{ModuleType: "team", ModuleID: "t", Field: "coverImageUrl"}))

	res, err := f.store.SweepOrphans(ctx, -time.Minute, true)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.Path}, res.Paths)
	assert.Zero(t, res.Removed)

	res, err = f.store.SweepOrphans(ctx, time.Hour, false)
	require.NoError(t, err)
	assert.Zero(t, res.Scanned)

	res, err = f.store.SweepOrphans(ctx, -time.Minute, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)

	_, err = f.store.Get(ctx, orphan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.store.Get(ctx, used.ID)
	assert.NoError(t, err)
}

func TestStore_SweepOrphansPaging(t *testing.T) {
	prev := sweepBatchSize
	sweepBatchSize = 1
	t.Cleanup(func() { sweepBatchSize = prev })

	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.upload(t, "general")
	}

	res, err := f.store.SweepOrphans(ctx, -time.Minute, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Len(t, res.Paths, 3)

	res, err = f.store.SweepOrphans(ctx, -time.Minute, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Removed)
	assert.Zero(t, res.Failed)
}

func TestStore_SweepOrphansFailuresCountedOnce(t *testing.T) {
	prev := sweepBatchSize
	sweepBatchSize = 1
	t.Cleanup(func() { sweepBatchSize = prev })

	f := newFixture(t)
	ctx := context.Background()
	f.upload(t, "general")
	f.upload(t, "general")

	require.NoError(t, f.db.DB().Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("disk I/O error"))
	}))

	res, err := f.store.SweepOrphans(ctx, -time.Minute, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Removed)
}

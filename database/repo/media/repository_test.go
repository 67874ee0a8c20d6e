package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
)

func seed(t *testing.T, repo *Repository, path, category string, tags ...string) *models.Media {
	t.Helper()
	m := &models.Media{
		Filename:     path,
		OriginalName: path,
		MimeType:     "image/png",
		Path:         path,
		Category:     category,
		Tags:         tags,
		Usage:        []models.MediaUsage{},
	}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestRepository_GetByPath(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()
	created := seed(t, repo, "general/a.png", "general")

	got, err := repo.GetByPath(ctx, "general/a.png")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := repo.GetByPath(ctx, "general/missing.png")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_UpdateUsage(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()
	m := seed(t, repo, "blogs/x.png", "blogs")
	u := models.MediaUsage{ModuleType: "blogs", ModuleID: "b1", Field: "coverImageUrl"}

	found, err := repo.UpdateUsage(ctx, m.ID, func(usage []models.MediaUsage) ([]models.MediaUsage, bool) {
		return append(usage, u), true
	})
	require.NoError(t, err)
	assert.True(t, found)

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.MediaUsage{u}, []models.MediaUsage(got.Usage))

	found, err = repo.UpdateUsage(ctx, "nope", func(usage []models.MediaUsage) ([]models.MediaUsage, bool) {
		t.Fatal("callback must not run for missing rows")
		return nil, false
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_Search(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()
	seed(t, repo, "blogs/1.png", "blogs", "hero", "dark")
	seed(t, repo, "blogs/2.png", "blogs", "light")
	seed(t, repo, "brands/3.png", "brands", "hero")

	tests := []struct {
		name  string
		query Query
		want  int64
	}{
		{"all", Query{}, 3},
		{"by category", Query{Category: "blogs"}, 2},
		{"by tag", Query{Tags: []string{"hero"}}, 2},
		{"any tag", Query{Tags: []string{"dark", "light"}}, 2},
		{"category and tag", Query{Category: "brands", Tags: []string{"hero"}}, 1},
		{"search name", Query{Search: "3.PNG"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
			assert.Len(t, page.Items, int(tt.want))
		})
	}

	page, err := repo.Search(ctx, Query{ListOptions: base.ListOptions{Page: 2, Limit: 2, SortBy: "created_at"}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
}

func TestRepository_SearchTagWildcards(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()
	seed(t, repo, "general/1.png", "general", "a_c")
	seed(t, repo, "general/2.png", "general", "abc")
	seed(t, repo, "general/3.png", "general", "100%")
	seed(t, repo, "general/4.png", "general", "1000")

	tests := []struct {
		tag  string
		want string
	}{
		{"a_c", "general/1.png"},
		{"abc", "general/2.png"},
		{"100%", "general/3.png"},
		{"1000", "general/4.png"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			page, err := repo.Search(ctx, Query{Tags: []string{tt.tag}})
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, tt.want, page.Items[0].Path)
		})
	}

	page, err := repo.Search(ctx, Query{Tags: []string{"%"}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = repo.Search(ctx, Query{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRepository_ListUnused(t *testing.T) {
	repo := NewRepository(dbtest.New(t))
	ctx := context.Background()
	unused := seed(t, repo, "general/unused.png", "general")
	used := seed(t, repo, "general/used.png", "general")
	_, err := repo.UpdateUsage(ctx, used.ID, func(usage []models.MediaUsage) ([]models.MediaUsage, bool) {
		return append(usage, models.MediaUsage{ModuleType: "brands", ModuleID: "1", Field: "logoUrl"}), true
	})
	require.NoError(t, err)

	items, err := repo.ListUnused(ctx, time.Now().Add(time.Minute), "", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, unused.ID, items[0].ID)

	items, err = repo.ListUnused(ctx, time.Now().Add(time.Minute), unused.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.ListUnused(ctx, time.Now().Add(-time.Hour), "", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

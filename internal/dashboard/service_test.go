package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	dashboardRepo "github.com/engmhisham/utg-api/database/repo/dashboard"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/storage"
)

// mockCache 模拟缓存
type mockCache struct {
	data map[string]interface{}
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string]interface{}),
	}
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if val, ok := m.data[key]; ok {
		if stats, ok := val.(*StatsResponse); ok {
			*dest.(*StatsResponse) = *stats
			return nil
		}
	}
	return cache.ErrCacheMiss
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockCache) Ping(ctx context.Context) error { return nil }

func (m *mockCache) Close() error { return nil }

func (m *mockCache) Name() string { return "mock" }

// mockRepository 模拟仓库
type mockRepository struct {
	mediaStats    *dashboardRepo.MediaStats
	categoryStats []dashboardRepo.CategoryStat
	contentCounts map[string]int64
	inboxStats    *dashboardRepo.InboxStats
	dailyStats    []dashboardRepo.DailyStat
	calls         int
}

func (m *mockRepository) GetMediaStats(ctx context.Context) (*dashboardRepo.MediaStats, error) {
	m.calls++
	return m.mediaStats, nil
}

func (m *mockRepository) GetCategoryStats(ctx context.Context) ([]dashboardRepo.CategoryStat, error) {
	return m.categoryStats, nil
}

func (m *mockRepository) GetContentCounts(ctx context.Context) (map[string]int64, error) {
	return m.contentCounts, nil
}

func (m *mockRepository) GetInboxStats(ctx context.Context) (*dashboardRepo.InboxStats, error) {
	return m.inboxStats, nil
}

func (m *mockRepository) GetDailyUploads(ctx context.Context, days int, now time.Time) ([]dashboardRepo.DailyStat, error) {
	return m.dailyStats, nil
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		mediaStats: &dashboardRepo.MediaStats{Total: 100, Unused: 7, TotalSize: 100 << 20},
		categoryStats: []dashboardRepo.CategoryStat{
			{Category: "blogs", Count: 60, Size: 60 << 20},
			{Category: "brands", Count: 40, Size: 40 << 20},
		},
		contentCounts: map[string]int64{"blogs": 12, "faqs": 4},
		inboxStats:    &dashboardRepo.InboxStats{NewMessages: 3, ActiveSubscriptions: 20, Users: 2},
	}
}

func TestService_GetStats(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCache())
	ctx := context.Background()

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(100), stats.Media.Total)
	assert.Equal(t, int64(7), stats.Media.Unused)
	assert.Equal(t, "100.00 MB", stats.Media.TotalSizeHuman)
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, 60.0, stats.Categories[0].Percentage)
	assert.Equal(t, 40.0, stats.Categories[1].Percentage)
	assert.Equal(t, int64(12), stats.Content["blogs"])
	assert.Equal(t, int64(3), stats.Inbox.NewMessages)

	// 第二次命中缓存
	cached, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), cached.Media.Total)
	assert.Equal(t, 1, repo.calls)
}

func TestService_RefreshCache(t *testing.T) {
	mc := newMockCache()
	svc := NewService(newMockRepository(), mc)
	ctx := context.Background()

	_, err := svc.GetStats(ctx)
	require.NoError(t, err)

	exists, _ := mc.Exists(ctx, statsCacheKey)
	assert.True(t, exists)

	require.NoError(t, svc.RefreshCache(ctx))
	exists, _ = mc.Exists(ctx, statsCacheKey)
	assert.False(t, exists)
}

func Test_buildTrendData(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	dailyStats := []dashboardRepo.DailyStat{
		{Date: "2026-03-09", Count: 5},
		{Date: "2026-03-10", Count: 3},
		{Date: "2025-01-01", Count: 9},
	}

	trend := buildTrendData(dailyStats, 30, now)

	assert.Equal(t, "30d", trend.Period)
	require.Len(t, trend.Dates, 30)
	require.Len(t, trend.Data, 30)
	assert.Equal(t, "2026-02-09", trend.Dates[0])
	assert.Equal(t, int64(5), trend.Data[28])
	assert.Equal(t, int64(3), trend.Data[29])
	assert.Equal(t, int64(0), trend.Data[0])
}

func TestRepository_Stats(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := media.NewStore(mediarepo.NewRepository(db), local, media.Options{APIPrefix: "api"})

	upload := func(category string) *models.Media {
		tmp := filepath.Join(t.TempDir(), "a.gif")
		require.NoError(t, os.WriteFile(tmp, []byte("GIF89a"), 0644))
		m, err := store.Create(ctx, media.Upload{TempPath: tmp, OriginalName: "a.gif", MimeType: "image/gif", Size: 6}, media.Metadata{Category: category})
		require.NoError(t, err)
		return m
	}
	used := upload("brands")
	upload("brands")
	upload("blogs")
	require.NoError(t, store.AddUsage(ctx, used.ID, models.MediaUsage{ModuleType: "brands", ModuleID: "b1", Field: "logoUrl"}))

	require.NoError(t, db.DB().Create(&models.ContactMessage{Name: "A", Email: "a@example.com", Message: "hi"}).Error)

	repo := dashboardRepo.NewRepository(db)

	ms, err := repo.GetMediaStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ms.Total)
	assert.Equal(t, int64(18), ms.TotalSize)
	assert.Equal(t, int64(2), ms.Unused)

	cats, err := repo.GetCategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "brands", cats[0].Category)
	assert.Equal(t, int64(2), cats[0].Count)

	inbox, err := repo.GetInboxStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inbox.NewMessages)

	daily, err := repo.GetDailyUploads(ctx, 30, time.Now())
	require.NoError(t, err)
	var total int64
	for _, d := range daily {
		total += d.Count
	}
	assert.Equal(t, int64(3), total)
}

// Package dashboard 后台首页统计，结果短时缓存
package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database/repo/dashboard"
	"github.com/engmhisham/utg-api/utils/format"
)

const (
	statsCacheKey = "dashboard:stats"
	trendDays     = 30
)

// StatsRepository 统计仓库接口
type StatsRepository interface {
	GetMediaStats(ctx context.Context) (*dashboard.MediaStats, error)
	GetCategoryStats(ctx context.Context) ([]dashboard.CategoryStat, error)
	GetContentCounts(ctx context.Context) (map[string]int64, error)
	GetInboxStats(ctx context.Context) (*dashboard.InboxStats, error)
	GetDailyUploads(ctx context.Context, days int, now time.Time) ([]dashboard.DailyStat, error)
}

// Service Dashboard 统计服务
type Service struct {
	repo     StatsRepository
	cache    cache.Provider
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService 创建新的 Dashboard 统计服务
func NewService(repo StatsRepository, cacheProvider cache.Provider) *Service {
	return &Service{
		repo:     repo,
		cache:    cacheProvider,
		cacheTTL: 5 * time.Minute,
		now:      time.Now,
	}
}

// StatsResponse Dashboard 统计响应
type StatsResponse struct {
	Media      MediaOverview    `json:"media"`
	Categories []CategoryItem   `json:"categories"`
	Content    map[string]int64 `json:"content"`
	Inbox      InboxOverview    `json:"inbox"`
	Trend      TrendStats       `json:"trend"`
}

// MediaOverview 媒体库概览
type MediaOverview struct {
	Total          int64  `json:"total"`
	Unused         int64  `json:"unused"`
	TotalSize      int64  `json:"totalSize"`
	TotalSizeHuman string `json:"totalSizeHuman"`
}

// CategoryItem 单个分类统计
type CategoryItem struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	Size       int64   `json:"size"`
	SizeHuman  string  `json:"sizeHuman"`
	Percentage float64 `json:"percentage"`
}

// InboxOverview 收件箱与用户
type InboxOverview struct {
	NewMessages         int64 `json:"newMessages"`
	ActiveSubscriptions int64 `json:"activeSubscriptions"`
	Users               int64 `json:"users"`
}

// TrendStats 趋势统计
type TrendStats struct {
	Period string   `json:"period"`
	Dates  []string `json:"dates"`
	Data   []int64  `json:"data"`
}

// GetStats 获取 Dashboard 统计数据
func (s *Service) GetStats(ctx context.Context) (*StatsResponse, error) {
	// 尝试从缓存获取
	var cached StatsResponse
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	mediaStats, err := s.repo.GetMediaStats(ctx)
	if err != nil {
		return nil, err
	}
	categoryStats, err := s.repo.GetCategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	contentCounts, err := s.repo.GetContentCounts(ctx)
	if err != nil {
		return nil, err
	}
	inboxStats, err := s.repo.GetInboxStats(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dailyStats, err := s.repo.GetDailyUploads(ctx, trendDays, now)
	if err != nil {
		return nil, err
	}

	response := &StatsResponse{
		Media: MediaOverview{
			Total:          mediaStats.Total,
			Unused:         mediaStats.Unused,
			TotalSize:      mediaStats.TotalSize,
			TotalSizeHuman: format.HumanReadableSize(mediaStats.TotalSize),
		},
		Categories: buildCategories(categoryStats),
		Content:    contentCounts,
		Inbox: InboxOverview{
			NewMessages:         inboxStats.NewMessages,
			ActiveSubscriptions: inboxStats.ActiveSubscriptions,
			Users:               inboxStats.Users,
		},
		Trend: buildTrendData(dailyStats, trendDays, now),
	}

	_ = s.cache.Set(ctx, statsCacheKey, response, s.cacheTTL)
	return response, nil
}

// RefreshCache 刷新统计数据缓存
func (s *Service) RefreshCache(ctx context.Context) error {
	return s.cache.Delete(ctx, statsCacheKey)
}

func buildCategories(stats []dashboard.CategoryStat) []CategoryItem {
	// 计算总大小用于百分比
	var totalSize int64
	for _, stat := range stats {
		totalSize += stat.Size
	}

	items := make([]CategoryItem, len(stats))
	for i, stat := range stats {
		percentage := 0.0
		if totalSize > 0 {
			percentage = float64(stat.Size) / float64(totalSize) * 100
			percentage = math.Round(percentage*100) / 100
		}
		items[i] = CategoryItem{
			Category:   stat.Category,
			Count:      stat.Count,
			Size:       stat.Size,
			SizeHuman:  format.HumanReadableSize(stat.Size),
			Percentage: percentage,
		}
	}
	return items
}

// buildTrendData 构建趋势数据，没有数据的天数补0
func buildTrendData(stats []dashboard.DailyStat, days int, now time.Time) TrendStats {
	statMap := make(map[string]int64, len(stats))
	for _, stat := range stats {
		statMap[stat.Date] = stat.Count
	}

	dates := make([]string, days)
	data := make([]int64, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		dates[i] = date
		data[i] = statMap[date]
	}

	return TrendStats{
		Period: "30d",
		Dates:  dates,
		Data:   data,
	}
}

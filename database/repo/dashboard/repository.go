// Package dashboard 后台概览统计查询
package dashboard

import (
	"context"
	"time"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
)

// Repository Dashboard 统计仓库
type Repository struct {
	db    database.Provider
	media *mediarepo.Repository
}

// NewRepository 创建新的 Dashboard 统计仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db, media: mediarepo.NewRepository(db)}
}

// MediaStats 媒体库概览
type MediaStats struct {
	Total     int64
	TotalSize int64
	Unused    int64
}

// GetMediaStats 媒体总数、总大小和未引用数量
func (r *Repository) GetMediaStats(ctx context.Context) (*MediaStats, error) {
	var result MediaStats
	err := r.db.WithContext(ctx).Model(&models.Media{}).
		Select("COUNT(*) as total, COALESCE(SUM(size), 0) as total_size").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.Unused, err = r.media.CountUnused(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

// CategoryStat 按分类聚合的媒体统计
type CategoryStat struct {
	Category string
	Count    int64
	Size     int64
}

// GetCategoryStats 各分类媒体数量和大小
func (r *Repository) GetCategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := r.db.WithContext(ctx).Model(&models.Media{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(size), 0) as size").
		Group("category").
		Order("size DESC").
		Scan(&stats).Error
	return stats, err
}

// contentModels 参与计数的内容模块
var contentModels = map[string]interface{}{
	"blogs":        &models.Blog{},
	"brands":       &models.Brand{},
	"clients":      &models.Client{},
	"testimonials": &models.Testimonial{},
	"team":         &models.TeamMember{},
	"projects":     &models.Project{},
	"faqs":         &models.FAQ{},
	"locations":    &models.Location{},
	"categories":   &models.Category{},
}

// GetContentCounts 各内容模块的记录数
func (r *Repository) GetContentCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(contentModels))
	for name, model := range contentModels {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}

// InboxStats 收件箱统计
type InboxStats struct {
	NewMessages         int64
	ActiveSubscriptions int64
	Users               int64
}

// GetInboxStats 未读消息、有效订阅和用户数
func (r *Repository) GetInboxStats(ctx context.Context) (*InboxStats, error) {
	var stats InboxStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.ContactMessage{}).Where("status = ?", models.MessageNew).Count(&stats.NewMessages).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionActive).Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// DailyStat 每日统计
type DailyStat struct {
	Date  string
	Count int64
}

// GetDailyUploads 最近 days 天每天的上传数
// 按行取创建时间在内存中分桶，避免不同数据库的日期函数差异
func (r *Repository) GetDailyUploads(ctx context.Context, days int, now time.Time) ([]DailyStat, error) {
	start := now.AddDate(0, 0, -(days - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())

	var created []time.Time
	err := r.db.WithContext(ctx).Model(&models.Media{}).
		Where("created_at >= ?", start).
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]int64)
	for _, t := range created {
		buckets[t.In(now.Location()).Format("2006-01-02")]++
	}
	stats := make([]DailyStat, 0, len(buckets))
	for date, count := range buckets {
		stats = append(stats, DailyStat{Date: date, Count: count})
	}
	return stats, nil
}

// Package media 媒体目录仓库
package media

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
)

// Query 媒体列表查询条件
type Query struct {
	base.ListOptions
	Category string
	Tags     []string
	Search   string
	MimeType string
}

// UsageFunc 在行锁内修改引用列表，返回 false 表示无需写回
type UsageFunc func(usage []models.MediaUsage) ([]models.MediaUsage, bool)

// Repository 媒体仓库
type Repository struct {
	*base.Repository[models.Media]
	db database.Provider
}

// NewRepository 创建新的媒体仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{
		Repository: base.NewRepository[models.Media](db),
		db:         db,
	}
}

// GetByPath 按存储路径精确查找，不存在时返回 nil, nil
func (r *Repository) GetByPath(ctx context.Context, path string) (*models.Media, error) {
	return r.FirstByCondition(ctx, "path = ?", path)
}

// Search 分页查询，标签为任意匹配
func (r *Repository) Search(ctx context.Context, q Query) (*base.Page[models.Media], error) {
	return r.List(ctx, q.ListOptions, func(db *gorm.DB) *gorm.DB {
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.MimeType != "" {
			db = db.Where("mime_type LIKE ?"+base.LikeEscape, base.EscapeLike(q.MimeType)+"%")
		}
		if len(q.Tags) > 0 {
			or := r.db.DB().Where("1 = 0")
			for _, tag := range q.Tags {
				// 按 JSON 编码后的字符串匹配，与列中的存储形式一致
				encoded, err := json.Marshal(tag)
				if err != nil {
					continue
				}
				or = or.Or("CAST(tags AS TEXT) LIKE ?"+base.LikeEscape, base.Contains(string(encoded)))
			}
			db = db.Where(or)
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			like := base.Contains(strings.ToLower(s))
			db = db.Where("LOWER(original_name) LIKE ?"+base.LikeEscape+" OR LOWER(title_en) LIKE ?"+base.LikeEscape+
				" OR LOWER(title_ar) LIKE ?"+base.LikeEscape+" OR LOWER(alt_en) LIKE ?"+base.LikeEscape,
				like, like, like, like)
		}
		return db
	})
}

// UpdateUsage 在事务内读取-修改-写回引用列表
// postgres 下使用 SELECT ... FOR UPDATE，sqlite 写事务本身串行
func (r *Repository) UpdateUsage(ctx context.Context, id string, fn UsageFunc) (bool, error) {
	found := false
	err := r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var m models.Media
		if err := q.First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		next, changed := fn(m.Usage)
		if !changed {
			return nil
		}
		if next == nil {
			next = []models.MediaUsage{}
		}
		return tx.Model(&models.Media{}).Where("id = ?", id).
			Update("usage", toUsageColumn(next)).Error
	})
	return found, err
}

// Unused 引用列表为空的条件
func (r *Repository) Unused() base.Scope {
	empty := "usage IS NULL OR usage IN ('[]', 'null')"
	if r.db.Name() == "postgres" {
		empty = "usage IS NULL OR usage = '[]'::jsonb OR usage = 'null'::jsonb"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(empty)
	}
}

// CountUnused 统计未被引用的媒体
func (r *Repository) CountUnused(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Media{}).Scopes(r.Unused()).Count(&n).Error
	return n, err
}

// ListUnused 返回早于 before 且引用列表为空的媒体，按 id 升序从 afterID 之后翻页
func (r *Repository) ListUnused(ctx context.Context, before time.Time, afterID string, limit int) ([]models.Media, error) {
	q := r.DB(ctx).
		Where("created_at < ?", before).
		Scopes(r.Unused())
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}
	var items []models.Media
	err := q.Order("id asc").Limit(limit).Find(&items).Error
	return items, err
}

// Package base 提供通用的 Repository 基类
package base

import (
	"context"
	"errors"

	"github.com/engmhisham/utg-api/database"
	"gorm.io/gorm"
)

// Scope 查询条件
type Scope = func(*gorm.DB) *gorm.DB

// OrderItem 排序项
type OrderItem struct {
	ID           string `json:"id" binding:"required"`
	DisplayOrder int    `json:"displayOrder" binding:"gte=0"`
}

// Repository 通用仓库基类
type Repository[T any] struct {
	db database.Provider
}

// NewRepository 创建新的通用仓库
func NewRepository[T any](db database.Provider) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB 返回带上下文的连接
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create 创建记录
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.DB(ctx).Create(entity).Error
}

// GetByID 通过 ID 获取记录，不存在时返回 nil, nil
func (r *Repository[T]) GetByID(ctx context.Context, id string, preload ...string) (*T, error) {
	db := r.DB(ctx)
	for _, p := range preload {
		db = db.Preload(p)
	}
	return first[T](db.Where("id = ?", id))
}

// FirstByCondition 根据条件查询第一条记录，不存在时返回 nil, nil
func (r *Repository[T]) FirstByCondition(ctx context.Context, condition string, args ...interface{}) (*T, error) {
	return first[T](r.DB(ctx).Where(condition, args...))
}

func first[T any](db *gorm.DB) (*T, error) {
	var entity T
	if err := db.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Update 保存整条记录
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	return r.DB(ctx).Save(entity).Error
}

// UpdateColumns 按 ID 更新指定列，返回受影响行数
func (r *Repository[T]) UpdateColumns(ctx context.Context, ids []string, values map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB(ctx).Model(new(T)).Where("id IN ?", ids).Updates(values)
	return res.RowsAffected, res.Error
}

// Delete 删除记录，返回受影响行数
func (r *Repository[T]) Delete(ctx context.Context, id string) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(new(T))
	return res.RowsAffected, res.Error
}

// Exists 检查满足条件的记录是否存在
func (r *Repository[T]) Exists(ctx context.Context, condition string, args ...interface{}) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(new(T)).Where(condition, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

// List 分页查询
func (r *Repository[T]) List(ctx context.Context, opts ListOptions, scopes ...Scope) (*Page[T], error) {
	opts = opts.Normalize()

	var (
		items []T
		total int64
	)
	query := func() *gorm.DB {
		return r.DB(ctx).Model(new(T)).Scopes(scopes...)
	}
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	q := query().Offset(opts.Offset()).Limit(opts.Limit)
	if order := opts.OrderClause(); order != "" {
		q = q.Order(order)
	}
	for _, p := range opts.Preload {
		q = q.Preload(p)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}

	return NewPage(items, total, opts), nil
}

// Reorder 在事务中批量更新 display_order
func (r *Repository[T]) Reorder(ctx context.Context, items []OrderItem) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(new(T)).Where("id = ?", item.ID).
				Update("display_order", item.DisplayOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Package content 通用的内容实体服务：增删改查、状态、排序、批量操作，
// 并在每次变更后维护媒体引用和审计记录
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/reconcile"
	"github.com/engmhisham/utg-api/utils/logger"
	"github.com/engmhisham/utg-api/utils/validator"
)

var (
	ErrNotFound = errors.New("entity not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("entity already exists")
)

const (
	BulkDelete = "delete"
	BulkStatus = "status"
)

// Deps 服务共享依赖
type Deps struct {
	DB        database.Provider
	Reconcile *reconcile.Reconciler
	Audit     audit.Recorder
}

// Options 单个实体类型的配置
type Options[T any] struct {
	Entity        string          // 审计实体名
	Media         *reconcile.Spec // 无图片字段时为 nil
	SearchColumns []string
	SortColumns   []string
	DefaultSort   string
	DefaultOrder  string
	Statuses      []models.Status // 为空表示没有 status 列
	Ordered       bool            // 是否有 display_order 列
	Preload       []string

	// BeforeSave 在校验之后、写库之前调用，创建时 old 为 nil
	BeforeSave func(ctx context.Context, e *T, old *T) error
	// StatusColumns 状态变更时额外写入的列
	StatusColumns func(e *T, status models.Status) map[string]interface{}
}

// ListQuery 列表查询
type ListQuery struct {
	base.ListOptions
	Status  string
	Search  string
	Public  bool
	Filters map[string]interface{} // 列名已由调用方校验
}

// BulkRequest 批量操作
type BulkRequest struct {
	IDs    []string      `json:"ids" binding:"required,min=1,max=100"`
	Action string        `json:"action" binding:"required,oneof=delete status"`
	Status models.Status `json:"status"`
}

// BulkResult 批量操作结果
type BulkResult struct {
	Affected int      `json:"affected"`
	Missing  []string `json:"missing"`
}

// Service 通用内容服务
type Service[T any] struct {
	repo *base.Repository[T]
	deps Deps
	opts Options[T]
	log  zerolog.Logger
}

// New 创建内容服务
func New[T any](deps Deps, opts Options[T]) *Service[T] {
	return &Service[T]{
		repo: base.NewRepository[T](deps.DB),
		deps: deps,
		opts: opts,
		log:  logger.Named(opts.Entity),
	}
}

// Entity 返回实体名
func (s *Service[T]) Entity() string {
	return s.opts.Entity
}

// Repository 返回底层仓库
func (s *Service[T]) Repository() *base.Repository[T] {
	return s.repo
}

// List 分页查询，排序列不在白名单时使用默认排序
func (s *Service[T]) List(ctx context.Context, q ListQuery) (*base.Page[T], error) {
	opts := q.ListOptions
	if !contains(s.opts.SortColumns, opts.SortBy) {
		opts.SortBy = s.opts.DefaultSort
		if opts.SortOrder == "" {
			opts.SortOrder = s.opts.DefaultOrder
		}
	}
	opts.Preload = s.opts.Preload

	if q.Status != "" && !s.validStatus(models.Status(q.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, q.Status)
	}

	return s.repo.List(ctx, opts, func(db *gorm.DB) *gorm.DB {
		if len(s.opts.Statuses) > 0 {
			if q.Public {
				db = db.Where("status IN ?", publicStatuses)
			} else if q.Status != "" {
				db = db.Where("status = ?", q.Status)
			}
		}
		if search := strings.TrimSpace(q.Search); search != "" && len(s.opts.SearchColumns) > 0 {
			like := base.Contains(strings.ToLower(search))
			conds := make([]string, 0, len(s.opts.SearchColumns))
			args := make([]interface{}, 0, len(s.opts.SearchColumns))
			for _, col := range s.opts.SearchColumns {
				conds = append(conds, "LOWER("+col+") LIKE ?"+base.LikeEscape)
				args = append(args, like)
			}
			db = db.Where(strings.Join(conds, " OR "), args...)
		}
		for col, v := range q.Filters {
			db = db.Where(col+" = ?", v)
		}
		return db
	})
}

// Get 按 ID 获取，public 时只返回公开状态的记录
func (s *Service[T]) Get(ctx context.Context, id string, public bool) (*T, error) {
	return s.FindBy(ctx, "id", id, public)
}

// FindBy 按唯一列查找
func (s *Service[T]) FindBy(ctx context.Context, column, value string, public bool) (*T, error) {
	db := s.repo.DB(ctx).Where(column+" = ?", value)
	if public && len(s.opts.Statuses) > 0 {
		db = db.Where("status IN ?", publicStatuses)
	}
	for _, p := range s.opts.Preload {
		db = db.Preload(p)
	}

	var e T
	if err := db.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create 写入实体，随后登记媒体引用和审计
func (s *Service[T]) Create(ctx context.Context, e *T) error {
	if b := baseOf(e); b != nil {
		b.ID = ""
	}
	if err := s.check(ctx, e, nil); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return s.translate(err)
	}

	id := idOf(e)
	if s.opts.Media != nil {
		s.deps.Reconcile.Created(ctx, *s.opts.Media, id, mediaFields(e))
	}
	s.record(ctx, models.AuditCreate, id, nil, e)
	s.log.Info().Str("id", id).Msg("created")
	return nil
}

// Update 加载实体，由 apply 合并变更后整体保存
// 媒体引用的旧快照在 apply 之前采集
func (s *Service[T]) Update(ctx context.Context, id string, apply func(e *T) error) (*T, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}

	before := mediaFields(e)
	old := *e
	snapshot := toMap(e)

	if err := apply(e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if nb, ob := baseOf(e), baseOf(&old); nb != nil && ob != nil {
		nb.ID = ob.ID
		nb.CreatedAt = ob.CreatedAt
	}
	if err := s.check(ctx, e, &old); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.translate(err)
	}

	if s.opts.Media != nil {
		s.deps.Reconcile.Updated(ctx, *s.opts.Media, id, before, mediaFields(e))
	}
	s.record(ctx, models.AuditUpdate, id, snapshot, e)
	return s.Get(ctx, id, false)
}

// UpdateStatus 修改状态
func (s *Service[T]) UpdateStatus(ctx context.Context, id string, status models.Status) (*T, error) {
	if !s.validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}

	values := map[string]interface{}{"status": status}
	if s.opts.StatusColumns != nil {
		for k, v := range s.opts.StatusColumns(e, status) {
			values[k] = v
		}
	}
	if _, err := s.repo.UpdateColumns(ctx, []string{id}, values); err != nil {
		return nil, err
	}

	s.record(ctx, models.AuditUpdate, id, toMap(e), values)
	return s.Get(ctx, id, false)
}

// Delete 先释放媒体引用再删除实体
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrNotFound
	}

	if s.opts.Media != nil {
		s.deps.Reconcile.Deleted(ctx, *s.opts.Media, id, mediaFields(e))
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.AuditDelete, id, e, nil)
	s.log.Info().Str("id", id).Msg("deleted")
	return nil
}

// Reorder 批量更新 display_order
func (s *Service[T]) Reorder(ctx context.Context, items []base.OrderItem) error {
	if !s.opts.Ordered {
		return fmt.Errorf("%w: %s cannot be reordered", ErrInvalid, s.opts.Entity)
	}
	if len(items) == 0 {
		return nil
	}
	if err := s.repo.Reorder(ctx, items); err != nil {
		return err
	}
	s.record(ctx, models.AuditUpdate, "", nil, map[string]interface{}{"reorder": items})
	return nil
}

// Bulk 批量删除或修改状态，逐条执行以保证媒体引用被释放
func (s *Service[T]) Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	var op func(id string) error
	switch req.Action {
	case BulkDelete:
		op = func(id string) error { return s.Delete(ctx, id) }
	case BulkStatus:
		if !s.validStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, req.Status)
		}
		op = func(id string) error {
			_, err := s.UpdateStatus(ctx, id, req.Status)
			return err
		}
	default:
		return nil, fmt.Errorf("%w: unknown bulk action %q", ErrInvalid, req.Action)
	}

	result := &BulkResult{Missing: []string{}}
	for _, id := range req.IDs {
		if err := op(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				result.Missing = append(result.Missing, id)
				continue
			}
			return result, err
		}
		result.Affected++
	}
	return result, nil
}

// UniqueSlug 规范化 slug，为空时由 source 生成，并检查唯一性
func (s *Service[T]) UniqueSlug(ctx context.Context, slug, source, excludeID string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = validator.Slugify(source)
	}
	if slug == "" {
		return "", fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	if !validator.IsSlug(slug) {
		return "", fmt.Errorf("%w: invalid slug %q", ErrInvalid, slug)
	}

	exists, err := s.repo.Exists(ctx, "slug = ? AND id <> ?", slug, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: slug %q is taken", ErrConflict, slug)
	}
	return slug, nil
}

func (s *Service[T]) check(ctx context.Context, e *T, old *T) error {
	if err := validator.Engine().Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(s.opts.Statuses) > 0 {
		if st, ok := any(e).(interface{ GetStatus() models.Status }); ok {
			if v := st.GetStatus(); v != "" && !s.validStatus(v) {
				return fmt.Errorf("%w: unknown status %q", ErrInvalid, v)
			}
		}
	}
	if s.opts.BeforeSave != nil {
		return s.opts.BeforeSave(ctx, e, old)
	}
	return nil
}

func (s *Service[T]) validStatus(status models.Status) bool {
	for _, st := range s.opts.Statuses {
		if st == status {
			return true
		}
	}
	return false
}

func (s *Service[T]) translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (s *Service[T]) record(ctx context.Context, action models.AuditAction, id string, oldValues, newValues interface{}) {
	if s.deps.Audit != nil {
		s.deps.Audit.Record(ctx, action, s.opts.Entity, id, oldValues, newValues)
	}
}

// Package site 站点设置、全站 SEO 和页面 SEO，公开读取走缓存
package site

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/content"
	"github.com/engmhisham/utg-api/internal/reconcile"
	"github.com/engmhisham/utg-api/utils/logger"
)

const (
	keySettings   = "site:settings"
	keySEOGeneral = "site:seo:general"
	keyPageSEO    = "site:seo:page:"
)

var (
	seoGeneralMedia = reconcile.Spec{ModuleType: "seo_general", Fields: []reconcile.Field{reconcile.Direct("ogImage")}}
	pageSEOMedia    = reconcile.Spec{ModuleType: "page_seo", Fields: []reconcile.Field{reconcile.Direct("ogImage")}}
)

// SettingInput 设置项写入
type SettingInput struct {
	Key   string `json:"key" binding:"required,max=191"`
	Value string `json:"value"`
	Group string `json:"group" binding:"omitempty,max=64"`
}

// Service 站点配置服务
type Service struct {
	db     database.Provider
	loader *cache.Loader
	rec    *reconcile.Reconciler
	audit  audit.Recorder
	pages  *content.Service[models.PageSEO]
	log    zerolog.Logger
}

// NewService 创建站点服务
func NewService(deps content.Deps, loader *cache.Loader) *Service {
	s := &Service{
		db:     deps.DB,
		loader: loader,
		rec:    deps.Reconcile,
		audit:  deps.Audit,
		log:    logger.Named("site"),
	}
	s.pages = content.New(deps, content.Options[models.PageSEO]{
		Entity:        "page_seo",
		Media:         &pageSEOMedia,
		SearchColumns: []string{"page", "meta_title_en"},
		SortColumns:   []string{"page", "created_at", "updated_at"},
		DefaultSort:   "page",
		DefaultOrder:  "asc",
		BeforeSave: func(ctx context.Context, p *models.PageSEO, old *models.PageSEO) error {
			p.Page = strings.ToLower(strings.TrimSpace(p.Page))
			if p.Page == "" {
				return fmt.Errorf("%w: page is required", content.ErrInvalid)
			}
			if old != nil && old.Page != p.Page {
				s.invalidatePage(ctx, old.Page)
			}
			return nil
		},
	})
	return s
}

// Settings 返回全部设置，按 key 索引
func (s *Service) Settings(ctx context.Context) (map[string]models.Setting, error) {
	return cache.Load(ctx, s.loader, keySettings, func(ctx context.Context) (map[string]models.Setting, error) {
		var items []models.Setting
		if err := s.db.WithContext(ctx).Order("key asc").Find(&items).Error; err != nil {
			return nil, err
		}
		out := make(map[string]models.Setting, len(items))
		for _, item := range items {
			out[item.Key] = item
		}
		return out, nil
	})
}

// Setting 读取单个设置
func (s *Service) Setting(ctx context.Context, key string) (*models.Setting, error) {
	all, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := all[key]
	if !ok {
		return nil, content.ErrNotFound
	}
	return &item, nil
}

// UpsertSettings 批量写入设置
func (s *Service) UpsertSettings(ctx context.Context, inputs []SettingInput) ([]models.Setting, error) {
	items := make([]models.Setting, 0, len(inputs))
	for _, in := range inputs {
		key := strings.TrimSpace(in.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: key is required", content.ErrInvalid)
		}
		group := in.Group
		if group == "" {
			group = "general"
		}
		items = append(items, models.Setting{Key: key, Value: in.Value, Group: group})
	}
	if len(items) == 0 {
		return items, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "group_name", "updated_at"}),
	}).Create(&items).Error
	if err != nil {
		return nil, err
	}

	s.loader.Invalidate(ctx, keySettings)
	s.log.Info().Int("count", len(items)).Msg("settings updated")
	s.record(ctx, models.AuditUpdate, "settings", "", nil, inputs)

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	var saved []models.Setting
	if err := s.db.WithContext(ctx).Where("key IN ?", keys).Order("key asc").Find(&saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteSetting 删除设置
func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	res := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return content.ErrNotFound
	}
	s.loader.Invalidate(ctx, keySettings)
	s.record(ctx, models.AuditDelete, "settings", "", map[string]string{"key": key}, nil)
	return nil
}

// SEOGeneral 返回全站 SEO，不存在时返回空记录
func (s *Service) SEOGeneral(ctx context.Context) (*models.SEOGeneral, error) {
	v, err := cache.Load(ctx, s.loader, keySEOGeneral, func(ctx context.Context) (models.SEOGeneral, error) {
		var row models.SEOGeneral
		err := s.db.WithContext(ctx).Order("created_at asc").First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SEOGeneral{}, nil
		}
		return row, err
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateSEOGeneral 合并更新全站 SEO，首行不存在时创建
func (s *Service) UpdateSEOGeneral(ctx context.Context, apply func(*models.SEOGeneral) error) (*models.SEOGeneral, error) {
	var row models.SEOGeneral
	err := s.db.WithContext(ctx).Order("created_at asc").First(&row).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return nil, err
	}

	before := row.MediaFields()
	snapshot := row
	if err := apply(&row); err != nil {
		return nil, fmt.Errorf("%w: %v", content.ErrInvalid, err)
	}
	row.ID = snapshot.ID
	row.CreatedAt = snapshot.CreatedAt

	if isNew {
		err = s.db.WithContext(ctx).Create(&row).Error
	} else {
		err = s.db.WithContext(ctx).Save(&row).Error
	}
	if err != nil {
		return nil, err
	}

	if isNew {
		s.rec.Created(ctx, seoGeneralMedia, row.ID, row.MediaFields())
	} else {
		s.rec.Updated(ctx, seoGeneralMedia, row.ID, before, row.MediaFields())
	}
	s.loader.Invalidate(ctx, keySEOGeneral)
	s.record(ctx, models.AuditUpdate, "seo_general", row.ID, snapshot, row)
	return &row, nil
}

// PageSEO 按页面键读取，公开接口使用
func (s *Service) PageSEO(ctx context.Context, page string) (*models.PageSEO, error) {
	page = strings.ToLower(page)
	v, err := cache.Load(ctx, s.loader, keyPageSEO+page, func(ctx context.Context) (*models.PageSEO, error) {
		return s.pages.FindBy(ctx, "page", page, false)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListPages 分页查询页面 SEO
func (s *Service) ListPages(ctx context.Context, q content.ListQuery) (*base.Page[models.PageSEO], error) {
	return s.pages.List(ctx, q)
}

// GetPage 按 ID 读取页面 SEO
func (s *Service) GetPage(ctx context.Context, id string) (*models.PageSEO, error) {
	return s.pages.Get(ctx, id, false)
}

// CreatePage 创建页面 SEO
func (s *Service) CreatePage(ctx context.Context, p *models.PageSEO) error {
	if err := s.pages.Create(ctx, p); err != nil {
		return err
	}
	s.invalidatePage(ctx, p.Page)
	return nil
}

// UpdatePage 合并更新页面 SEO
func (s *Service) UpdatePage(ctx context.Context, id string, apply func(*models.PageSEO) error) (*models.PageSEO, error) {
	p, err := s.pages.Update(ctx, id, apply)
	if err != nil {
		return nil, err
	}
	s.invalidatePage(ctx, p.Page)
	return p, nil
}

// DeletePage 删除页面 SEO
func (s *Service) DeletePage(ctx context.Context, id string) error {
	p, err := s.pages.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidatePage(ctx, p.Page)
	return nil
}

func (s *Service) invalidatePage(ctx context.Context, page string) {
	s.loader.Invalidate(ctx, keyPageSEO+strings.ToLower(page))
}

func (s *Service) record(ctx context.Context, action models.AuditAction, entity, id string, oldValues, newValues interface{}) {
	if s.audit != nil {
		s.audit.Record(ctx, action, entity, id, oldValues, newValues)
	}
}

// Package blogs 博客文章：slug、分类、按语言读写译文、首次发布时间
package blogs

import (
	"context"
	"fmt"
	"time"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/content"
)

// Translation 单一语言的文章内容
type Translation struct {
	Language    models.Language `json:"language"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
}

// TranslationInput 译文更新，nil 字段保持不变
type TranslationInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// Service 博客服务
type Service struct {
	*content.Service[models.Blog]
	now func() time.Time
}

// NewService 创建博客服务
func NewService(deps content.Deps) *Service {
	s := &Service{now: time.Now}
	s.Service = content.New(deps, content.Options[models.Blog]{
		Entity:        "blogs",
		Media:         &content.BlogMedia,
		SearchColumns: []string{"title_en", "title_ar", "description_en", "slug"},
		SortColumns:   []string{"created_at", "updated_at", "published_at", "title_en"},
		DefaultSort:   "created_at",
		DefaultOrder:  "desc",
		Statuses:      content.EditorialStatuses,
		Preload:       []string{"Category"},
		BeforeSave:    s.beforeSave,
		StatusColumns: s.statusColumns,
	})
	return s
}

func (s *Service) beforeSave(ctx context.Context, b *models.Blog, old *models.Blog) error {
	if b.Title.EN == "" {
		return fmt.Errorf("%w: title.en is required", content.ErrInvalid)
	}

	slug, err := s.UniqueSlug(ctx, b.Slug, b.Title.EN, b.ID)
	if err != nil {
		return err
	}
	b.Slug = slug

	// 关联对象不参与保存
	b.Category = nil
	if b.CategoryID != nil && *b.CategoryID == "" {
		b.CategoryID = nil
	}
	if b.CategoryID != nil {
		var count int64
		if err := s.Repository().DB(ctx).Model(&models.Category{}).Where("id = ?", *b.CategoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: category %s does not exist", content.ErrInvalid, *b.CategoryID)
		}
	}

	if b.Status == models.StatusPublished && b.PublishedAt == nil {
		now := s.now()
		b.PublishedAt = &now
	}
	return nil
}

func (s *Service) statusColumns(b *models.Blog, status models.Status) map[string]interface{} {
	if status == models.StatusPublished && b.PublishedAt == nil {
		return map[string]interface{}{"published_at": s.now()}
	}
	return nil
}

// GetBySlug 按 slug 查找，匿名访问只返回已发布文章
func (s *Service) GetBySlug(ctx context.Context, slug string, public bool) (*models.Blog, error) {
	return s.FindBy(ctx, "slug", slug, public)
}

// Translation 读取指定语言的内容
func (s *Service) Translation(ctx context.Context, id string, lang models.Language, public bool) (*Translation, error) {
	b, err := s.Get(ctx, id, public)
	if err != nil {
		return nil, err
	}
	return &Translation{
		Language:    lang,
		Title:       b.Title.Get(lang),
		Description: b.Description.Get(lang),
		Content:     b.Content.Get(lang),
	}, nil
}

// UpdateTranslation 只修改指定语言的字段，走完整的更新流程
func (s *Service) UpdateTranslation(ctx context.Context, id string, lang models.Language, in TranslationInput) (*models.Blog, error) {
	return s.Update(ctx, id, func(b *models.Blog) error {
		if in.Title != nil {
			b.Title.Set(lang, *in.Title)
		}
		if in.Description != nil {
			b.Description.Set(lang, *in.Description)
		}
		if in.Content != nil {
			b.Content.Set(lang, *in.Content)
		}
		return nil
	})
}

// Package media 媒体资源的生命周期：上传入库、引用计数、删除与孤儿清理
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/storage"
	"github.com/engmhisham/utg-api/utils"
	"github.com/engmhisham/utg-api/utils/generator"
	"github.com/engmhisham/utg-api/utils/logger"
)

// Upload 上传层交给 Store 的临时文件
type Upload struct {
	TempPath     string
	OriginalName string
	MimeType     string
	Size         int64
}

// Metadata 媒体目录元数据
type Metadata struct {
	Alt         models.Localized
	Title       models.Localized
	Caption     models.Localized
	Description models.Localized
	Credits     string
	License     string
	FocalPoint  *models.FocalPoint
	Tags        []string
	Category    string
}

// Patch 元数据的部分更新，nil 字段保持不变
type Patch struct {
	Alt         *models.Localized  `json:"alt"`
	Title       *models.Localized  `json:"title"`
	Caption     *models.Localized  `json:"caption"`
	Description *models.Localized  `json:"description"`
	Credits     *string            `json:"credits"`
	License     *string            `json:"license"`
	FocalPoint  *models.FocalPoint `json:"focalPoint"`
	Tags        *[]string          `json:"tags"`
}

// Options Store 配置
type Options struct {
	APIPrefix    string // 如 api
	UploadPrefix string // 如 uploads
}

// Store 独占媒体文件与目录记录
type Store struct {
	repo    *mediarepo.Repository
	storage storage.Provider
	paths   *generator.PathGenerator
	opts    Options
	log     zerolog.Logger
}

// NewStore 创建媒体 Store
func NewStore(repo *mediarepo.Repository, provider storage.Provider, opts Options) *Store {
	opts.APIPrefix = strings.Trim(opts.APIPrefix, "/")
	opts.UploadPrefix = strings.Trim(opts.UploadPrefix, "/")
	if opts.UploadPrefix == "" {
		opts.UploadPrefix = "uploads"
	}
	return &Store{
		repo:    repo,
		storage: provider,
		paths:   generator.NewPathGenerator(),
		opts:    opts,
		log:     logger.Named("media"),
	}
}

// Create 探测尺寸，把临时文件移入 {category}/{generated} 并写入空引用的目录记录
func (s *Store) Create(ctx context.Context, up Upload, meta Metadata) (*models.Media, error) {
	if !utils.IsAllowedMediaType(up.MimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, up.MimeType)
	}

	category := generator.SanitizeCategory(meta.Category)
	ids := s.paths.Generate(category, up.OriginalName, up.MimeType)
	width, height := probeDimensions(up.TempPath, up.MimeType)

	if err := s.storage.Put(ctx, ids.StoragePath, up.TempPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	m := &models.Media{
		Filename:     ids.Filename,
		OriginalName: up.OriginalName,
		MimeType:     up.MimeType,
		Path:         ids.StoragePath,
		Size:         up.Size,
		Width:        width,
		Height:       height,
		Alt:          meta.Alt,
		Title:        meta.Title,
		Caption:      meta.Caption,
		Description:  meta.Description,
		Credits:      meta.Credits,
		License:      meta.License,
		Tags:         tags,
		Category:     category,
		Usage:        []models.MediaUsage{},
	}
	if meta.FocalPoint != nil {
		m.FocalPoint = datatypes.NewJSONType(*meta.FocalPoint)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		// 目录写入失败时回收已落盘的文件
		if delErr := s.storage.Delete(ctx, ids.StoragePath); delErr != nil {
			s.log.Error().Err(delErr).Str("path", ids.StoragePath).Msg("failed to clean up stored file after insert error")
		}
		return nil, fmt.Errorf("failed to save media record: %w", err)
	}

	s.decorate(m)
	s.log.Info().Str("id", m.ID).Str("path", m.Path).Int64("size", m.Size).Msg("media created")
	return m, nil
}

// Get 按 ID 获取
func (s *Store) Get(ctx context.Context, id string) (*models.Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	s.decorate(m)
	return m, nil
}

// FindByPath 按存储路径精确查找，不存在时返回 nil, nil
func (s *Store) FindByPath(ctx context.Context, storagePath string) (*models.Media, error) {
	m, err := s.repo.GetByPath(ctx, storagePath)
	if err != nil || m == nil {
		return nil, err
	}
	s.decorate(m)
	return m, nil
}

// ResolveURL 把内容里的图片 URL 解析为目录记录，非托管 URL 返回 nil, nil
func (s *Store) ResolveURL(ctx context.Context, rawURL string) (*models.Media, error) {
	p := s.NormalizePath(rawURL)
	if !storage.IsValidStoragePath(p) {
		return nil, nil
	}
	return s.FindByPath(ctx, p)
}

// NormalizePath 按当前前缀配置把 URL 还原为存储路径
func (s *Store) NormalizePath(rawURL string) string {
	return NormalizePath(rawURL, s.opts.APIPrefix, s.opts.UploadPrefix)
}

// PublicURL 返回客户端访问路径
func (s *Store) PublicURL(storagePath string) string {
	return "/" + s.opts.UploadPrefix + "/" + storagePath
}

// List 分页查询
func (s *Store) List(ctx context.Context, q mediarepo.Query) (*base.Page[models.Media], error) {
	page, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		s.decorate(&page.Items[i])
	}
	return page, nil
}

// Update 修改目录元数据，不影响文件和引用列表
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*models.Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	values := map[string]interface{}{}
	setLocalized := func(prefix string, v *models.Localized) {
		if v != nil {
			values[prefix+"en"] = v.EN
			values[prefix+"ar"] = v.AR
		}
	}
	setLocalized("alt_", patch.Alt)
	setLocalized("title_", patch.Title)
	setLocalized("caption_", patch.Caption)
	setLocalized("description_", patch.Description)
	if patch.Credits != nil {
		values["credits"] = *patch.Credits
	}
	if patch.License != nil {
		values["license"] = *patch.License
	}
	if patch.FocalPoint != nil {
		values["focal_point"] = datatypes.NewJSONType(*patch.FocalPoint)
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		values["tags"] = toTags(tags)
	}

	if len(values) > 0 {
		if _, err := s.repo.UpdateColumns(ctx, []string{id}, values); err != nil {
			return nil, fmt.Errorf("failed to update media %s: %w", id, err)
		}
	}
	return s.Get(ctx, id)
}

// AddUsage 幂等追加引用
func (s *Store) AddUsage(ctx context.Context, id string, u models.MediaUsage) error {
	found, err := s.repo.UpdateUsage(ctx, id, func(usage []models.MediaUsage) ([]models.MediaUsage, bool) {
		for _, existing := range usage {
			if existing == u {
				return usage, false
			}
		}
		return append(usage, u), true
	})
	if err != nil {
		return fmt.Errorf("failed to add usage to media %s: %w", id, err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// RemoveUsage 幂等移除引用，引用不存在时不报错
func (s *Store) RemoveUsage(ctx context.Context, id string, u models.MediaUsage) error {
	found, err := s.repo.UpdateUsage(ctx, id, func(usage []models.MediaUsage) ([]models.MediaUsage, bool) {
		next := make([]models.MediaUsage, 0, len(usage))
		for _, existing := range usage {
			if existing != u {
				next = append(next, existing)
			}
		}
		return next, len(next) != len(usage)
	})
	if err != nil {
		return fmt.Errorf("failed to remove usage from media %s: %w", id, err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Remove 删除媒体，引用列表非空时返回 ErrInUse
// 文件删除失败只记录日志，目录记录仍然删除
func (s *Store) Remove(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if m.InUse() {
		return ErrInUse
	}
	return s.purge(ctx, m)
}

// RemoveByURL 按 URL 强制删除被替换的媒体，即使引用列表非空
// 找不到记录时只记录警告
func (s *Store) RemoveByURL(ctx context.Context, rawURL string) error {
	p := s.NormalizePath(rawURL)
	m, err := s.repo.GetByPath(ctx, p)
	if err != nil {
		return err
	}
	if m == nil {
		s.log.Warn().Str("url", utils.SanitizeLogValue(rawURL, 256)).Msg("no media matches url, nothing to remove")
		return nil
	}
	if m.InUse() {
		s.log.Warn().Str("id", m.ID).Int("usages", len(m.Usage)).Msg("force removing media that is still referenced")
	}
	return s.purge(ctx, m)
}

func (s *Store) purge(ctx context.Context, m *models.Media) error {
	if err := s.storage.Delete(ctx, m.Path); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error().Err(err).Str("path", m.Path).Msg("failed to delete media file, removing record anyway")
	}
	if _, err := s.repo.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("failed to delete media record %s: %w", m.ID, err)
	}
	s.log.Info().Str("id", m.ID).Str("path", m.Path).Msg("media removed")
	return nil
}

// Open 打开存储文件，返回内容类型
func (s *Store) Open(ctx context.Context, storagePath string) (io.ReadCloser, string, error) {
	if !storage.IsValidStoragePath(storagePath) {
		return nil, "", ErrNotFound
	}
	rc, err := s.storage.Open(ctx, storagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	contentType := mime.TypeByExtension(path.Ext(storagePath))
	if m, err := s.repo.GetByPath(ctx, storagePath); err == nil && m != nil {
		contentType = m.MimeType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

func (s *Store) decorate(m *models.Media) {
	m.URL = s.PublicURL(m.Path)
}

func toTags(tags []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](tags)
}

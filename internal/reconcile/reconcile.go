// Package reconcile 让媒体引用列表与内容实体字段中的实际引用保持一致
//
// 所有媒体操作都是尽力而为：失败只记录日志，从不影响内容本身的增删改。
package reconcile

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/internal/references"
	"github.com/engmhisham/utg-api/utils/logger"
)

// MediaStore 引用维护需要的媒体操作
type MediaStore interface {
	ResolveURL(ctx context.Context, rawURL string) (*models.Media, error)
	AddUsage(ctx context.Context, id string, u models.MediaUsage) error
	RemoveUsage(ctx context.Context, id string, u models.MediaUsage) error
	Remove(ctx context.Context, id string) error
	RemoveByURL(ctx context.Context, rawURL string) error
	NormalizePath(rawURL string) string
}

// Field 引用媒体的字段声明
type Field struct {
	Name string
	Kind references.Kind
}

// Spec 某类内容实体的引用字段声明
type Spec struct {
	ModuleType string
	Fields     []Field
}

// Direct 声明直接 URL 字段
func Direct(name string) Field {
	return Field{Name: name, Kind: references.Direct}
}

// RichText 声明块文档字段
func RichText(name string) Field {
	return Field{Name: name, Kind: references.RichText}
}

// Reconciler 通用的引用维护例程
type Reconciler struct {
	store MediaStore
	log   zerolog.Logger
}

// New 创建 Reconciler
func New(store MediaStore) *Reconciler {
	return &Reconciler{store: store, log: logger.Named("reconcile")}
}

// Created 实体写入之后登记全部引用
func (r *Reconciler) Created(ctx context.Context, spec Spec, id string, values map[string]string) {
	for _, f := range spec.Fields {
		for _, u := range references.Extract(f.Kind, values[f.Name]) {
			r.add(ctx, spec, id, f, u)
		}
	}
}

// Updated 实体保存之后按前后快照调整引用
// before 必须在覆盖行之前采集。新旧 URL 按存储路径比较，同一资源的不同写法视为同一引用
func (r *Reconciler) Updated(ctx context.Context, spec Spec, id string, before, after map[string]string) {
	// 先登记新引用，后续的删除尝试会因此命中 ErrInUse 而保留仍被使用的资源
	live := make(map[string]struct{})
	for _, f := range spec.Fields {
		for _, u := range references.Extract(f.Kind, after[f.Name]) {
			live[r.store.NormalizePath(u)] = struct{}{}
			r.add(ctx, spec, id, f, u)
		}
	}

	for _, f := range spec.Fields {
		switch f.Kind {
		case references.RichText:
			next := r.distinct(f, after)
			for p, old := range r.distinct(f, before) {
				if _, ok := next[p]; ok {
					continue
				}
				r.release(ctx, spec, id, f, old)
			}
		default:
			old := before[f.Name]
			if old == "" || r.store.NormalizePath(old) == r.store.NormalizePath(after[f.Name]) {
				continue
			}
			r.supersede(ctx, spec, id, f, old, live)
		}
	}
}

// Deleted 删除实体之前释放全部引用
func (r *Reconciler) Deleted(ctx context.Context, spec Spec, id string, values map[string]string) {
	for _, f := range spec.Fields {
		for _, u := range r.distinct(f, values) {
			r.release(ctx, spec, id, f, u)
		}
	}
}

// distinct 字段内的引用，按存储路径去重
func (r *Reconciler) distinct(f Field, values map[string]string) map[string]string {
	return references.Distinct(references.Extract(f.Kind, values[f.Name]), r.store.NormalizePath)
}

func (r *Reconciler) usage(spec Spec, id string, f Field) models.MediaUsage {
	return models.MediaUsage{ModuleType: spec.ModuleType, ModuleID: id, Field: f.Name}
}

func (r *Reconciler) resolve(ctx context.Context, rawURL string) *models.Media {
	m, err := r.store.ResolveURL(ctx, rawURL)
	if err != nil {
		r.log.Warn().Err(err).Str("url", rawURL).Msg("failed to resolve media url")
		return nil
	}
	if m == nil {
		r.log.Debug().Str("url", rawURL).Msg("url is not managed media, skipping")
	}
	return m
}

func (r *Reconciler) add(ctx context.Context, spec Spec, id string, f Field, rawURL string) {
	m := r.resolve(ctx, rawURL)
	if m == nil {
		return
	}
	if err := r.store.AddUsage(ctx, m.ID, r.usage(spec, id, f)); err != nil {
		r.log.Warn().Err(err).
			Str("media", m.ID).
			Str("module", spec.ModuleType).
			Str("entity", id).
			Str("field", f.Name).
			Msg("failed to add media usage")
	}
}

// release 移除本字段的引用并尝试删除资源，仍被使用时保留
func (r *Reconciler) release(ctx context.Context, spec Spec, id string, f Field, rawURL string) {
	m := r.resolve(ctx, rawURL)
	if m == nil {
		return
	}
	if err := r.store.RemoveUsage(ctx, m.ID, r.usage(spec, id, f)); err != nil {
		r.log.Warn().Err(err).Str("media", m.ID).Str("field", f.Name).Msg("failed to remove media usage")
		return
	}
	if err := r.store.Remove(ctx, m.ID); err != nil {
		if errors.Is(err, media.ErrInUse) {
			r.log.Debug().Str("media", m.ID).Msg("media still referenced, keeping")
			return
		}
		r.log.Warn().Err(err).Str("media", m.ID).Msg("failed to remove released media")
	}
}

// supersede 直接字段被替换时强制删除旧资源
// 旧 URL 仍出现在本实体的其它字段时只移除本字段的引用
func (r *Reconciler) supersede(ctx context.Context, spec Spec, id string, f Field, oldURL string, live map[string]struct{}) {
	m := r.resolve(ctx, oldURL)
	if m == nil {
		return
	}
	if err := r.store.RemoveUsage(ctx, m.ID, r.usage(spec, id, f)); err != nil {
		r.log.Warn().Err(err).Str("media", m.ID).Str("field", f.Name).Msg("failed to remove media usage")
	}
	if _, ok := live[r.store.NormalizePath(oldURL)]; ok {
		return
	}
	if err := r.store.RemoveByURL(ctx, oldURL); err != nil {
		r.log.Warn().Err(err).Str("url", oldURL).Str("field", f.Name).Msg("failed to remove superseded media")
	}
}

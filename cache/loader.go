package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader 带 singleflight 合并的读穿透缓存
type Loader struct {
	provider Provider
	ttl      time.Duration
	group    singleflight.Group
}

// NewLoader 创建读穿透加载器
func NewLoader(provider Provider, ttl time.Duration) *Loader {
	return &Loader{provider: provider, ttl: ttl}
}

// Invalidate 删除缓存项，失败只记录日志
func (l *Loader) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := l.provider.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	}
}

// Load 先查缓存，未命中时由同一 key 的唯一调用方执行 fetch 并回填
func Load[T any](ctx context.Context, l *Loader, key string, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	if err := l.provider.Get(ctx, key, &out); err == nil {
		return out, nil
	} else if !IsCacheMiss(err) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to source")
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		value, err := fetch(ctx)
		if err != nil {
			return value, err
		}
		if err := l.provider.Set(ctx, key, value, l.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return value, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}

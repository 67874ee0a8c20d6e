package cache

import (
	"fmt"

	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/utils/logger"
)

// NewFromConfig 根据 cache_type 创建缓存提供者
func NewFromConfig(cfg *config.Config) (Provider, error) {
	var (
		provider Provider
		err      error
	)
	switch cfg.CacheType {
	case "memory", "":
		provider, err = NewMemory(MemoryConfig{MaxCost: cfg.CacheMaxSizeMB << 20})
	case "redis":
		provider, err = NewRedis(RedisConfig{
			Addr:      cfg.CacheRedisAddr,
			Password:  cfg.CacheRedisPassword,
			DB:        cfg.CacheRedisDB,
			KeyPrefix: "utg:",
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Str("provider", provider.Name()).Msg("Cache provider initialized")
	return provider, nil
}

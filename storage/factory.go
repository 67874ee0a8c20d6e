package storage

import (
	"fmt"

	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/utils/logger"
)

// NewFromConfig 根据 storage_type 创建存储提供者
func NewFromConfig(cfg *config.Config) (Provider, error) {
	log := logger.Get()

	var (
		provider Provider
		err      error
	)
	switch cfg.StorageType {
	case "local", "":
		provider, err = NewLocalStorage(cfg.StorageLocalPath)
	case "minio":
		provider, err = NewMinioStorage(MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKey,
			SecretAccessKey: cfg.MinioSecretKey,
			BucketName:      cfg.MinioBucket,
			UseSSL:          cfg.MinioUseSSL,
		})
	case "webdav":
		provider, err = NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.WebDAVURL,
			Username: cfg.WebDAVUsername,
			Password: cfg.WebDAVPassword,
			RootPath: cfg.WebDAVRootPath,
			Timeout:  cfg.WebDAVTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageType, err)
	}

	log.Info().Str("provider", provider.Name()).Msg("Storage provider initialized")
	return provider, nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置结构
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
	Timeout  time.Duration
}

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	s := &WebDAVStorage{client: client, rootPath: rootPath}
	if rootPath != "" {
		if err := client.MkdirAll(rootPath, 0755); err != nil {
			return nil, fmt.Errorf("webdav connection test failed: %w", err)
		}
	}
	if err := s.Health(context.Background()); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}
	return s, nil
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(storagePath string) string {
	return s.rootPath + "/" + strings.TrimLeft(storagePath, "/")
}

// Put 上传本地文件后删除源文件
func (s *WebDAVStorage) Put(ctx context.Context, storagePath, localPath string) error {
	if !IsValidStoragePath(storagePath) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := s.fullPath(storagePath)
	if err := s.client.MkdirAll(path.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to ensure parent directory for %s: %w", storagePath, err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open source '%s': %w", localPath, err)
	}
	err = s.client.WriteStream(full, readerWithContext(ctx, f), 0644)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("failed to upload '%s' to webdav: %w", storagePath, err)
	}

	_ = os.Remove(localPath)
	return nil
}

// Open 读取文件流
func (s *WebDAVStorage) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	rc, err := s.client.ReadStream(s.fullPath(storagePath))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to read '%s' from webdav: %w", storagePath, err)
	}
	return rc, nil
}

// Delete 删除文件
func (s *WebDAVStorage) Delete(ctx context.Context, storagePath string) error {
	full := s.fullPath(storagePath)
	if _, err := s.client.Stat(full); err != nil {
		if gowebdav.IsErrNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, storagePath)
		}
		return err
	}
	if err := s.client.Remove(full); err != nil {
		return fmt.Errorf("failed to delete '%s' from webdav: %w", storagePath, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *WebDAVStorage) Exists(ctx context.Context, storagePath string) (bool, error) {
	_, err := s.client.Stat(s.fullPath(storagePath))
	if err == nil {
		return true, nil
	}
	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}
	return false, err
}

// Health 读取根目录验证连接
func (s *WebDAVStorage) Health(ctx context.Context) error {
	root := s.rootPath
	if root == "" {
		root = "/"
	}
	done := make(chan error, 1)
	go func() {
		_, err := s.client.ReadDir(root)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	return "webdav"
}

package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotFound 存储对象不存在
var ErrNotFound = errors.New("storage object not found")

// Provider 存储提供者接口
// storagePath 均为不带前导斜杠的相对路径，如 blogs/0f8c...e1.jpg
type Provider interface {
	// Put 把本地临时文件转移到 storagePath，成功后源文件不再存在
	Put(ctx context.Context, storagePath, localPath string) error

	// Open 打开存储中的文件
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete 删除文件，文件不存在时返回 ErrNotFound
	Delete(ctx context.Context, storagePath string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, storagePath string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// IsValidStoragePath 校验存储路径是否合法
func IsValidStoragePath(path string) bool {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false
	}

	// 防止目录遍历
	if strings.Contains(path, "..") {
		return false
	}

	// 只允许安全字符
	for _, r := range path {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' && r != '/' {
			return false
		}
	}

	return true
}

// Package media 媒体库接口：上传、元数据、引用登记、删除与文件访问
package media

import (
	"github.com/engmhisham/utg-api/internal/media"
)

const defaultPageSize = 24

// Handler 媒体处理器
type Handler struct {
	store   *media.Store
	tempDir string
	maxSize int64
}

// NewHandler 创建媒体处理器
func NewHandler(store *media.Store, tempDir string, maxSizeMB int) *Handler {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &Handler{
		store:   store,
		tempDir: tempDir,
		maxSize: int64(maxSizeMB) << 20,
	}
}

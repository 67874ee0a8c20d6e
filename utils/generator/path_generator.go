package generator

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/engmhisham/utg-api/utils"
)

// DefaultCategory 未指定分类时使用的目录
const DefaultCategory = "general"

// PathGenerator 媒体存储路径生成器
type PathGenerator struct {
	newID func() string
}

// NewPathGenerator 创建路径生成器
func NewPathGenerator() *PathGenerator {
	return &PathGenerator{newID: uuid.NewString}
}

// StorageIdentifiers 存储标识对
type StorageIdentifiers struct {
	Filename    string // 生成的文件名，如 0f8c...e1.jpg
	StoragePath string // 相对存储路径，如 blogs/0f8c...e1.jpg
}

// Generate 根据分类、原始文件名和 MIME 类型生成文件名与存储路径
func (pg *PathGenerator) Generate(category, originalName, mimeType string) StorageIdentifiers {
	ext := utils.ExtensionFor(mimeType, originalName)
	filename := pg.newID() + ext
	return StorageIdentifiers{
		Filename:    filename,
		StoragePath: path.Join(SanitizeCategory(category), filename),
	}
}

// SanitizeCategory 把分类名规范为单层目录名，非法或空值返回 general
func SanitizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	var sb strings.Builder
	for _, r := range category {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-_")
	if out == "" {
		return DefaultCategory
	}
	return out
}

package utils

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// mimeToExtMap MIME类型到安全扩展名的映射
var mimeToExtMap = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/bmp":       ".bmp",
	"image/tiff":      ".tiff",
	"image/x-icon":    ".ico",
	"application/pdf": ".pdf",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
}

// IsAllowedMediaType 是否为允许上传的媒体类型
func IsAllowedMediaType(mimeType string) bool {
	_, ok := mimeToExtMap[normalizeMIME(mimeType)]
	return ok
}

// ExtensionFor 优先使用原始文件名中的扩展名，否则根据 MIME 类型推断
func ExtensionFor(mimeType, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if ext != "" && len(ext) <= 6 && isAlnum(ext[1:]) {
		return ext
	}
	return mimeToExtMap[normalizeMIME(mimeType)]
}

// SniffContentType 读取前 512 字节判断内容类型，读取后把流重置到开头
func SniffContentType(stream io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)

	n, err := stream.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read stream for mime sniffing: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])

	if _, err = stream.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to seek stream back to start after sniffing: %w", err)
	}

	return normalizeMIME(contentType), nil
}

func normalizeMIME(mimeType string) string {
	return strings.TrimSpace(strings.Split(mimeType, ";")[0])
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

package media

import "errors"

var (
	// ErrNotFound 媒体不存在
	ErrNotFound = errors.New("media not found")
	// ErrInUse 媒体仍被内容引用，不能删除
	ErrInUse = errors.New("media is in use")
	// ErrStorage 文件转移或删除失败
	ErrStorage = errors.New("media storage error")
	// ErrUnsupportedType 不允许上传的 MIME 类型
	ErrUnsupportedType = errors.New("unsupported media type")
)

package base

import "fmt"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions 分页与排序参数，SortBy 必须是调用方校验过的列名
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Preload   []string
}

// Normalize 修正越界的分页参数
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// Offset 计算偏移量
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// OrderClause 生成排序子句
func (o ListOptions) OrderClause() string {
	if o.SortBy == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", o.SortBy, o.SortOrder)
}

// Page 分页结果
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage 构造分页结果
func NewPage[T any](items []T, total int64, opts ListOptions) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if opts.Limit > 0 {
		pages = int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: pages,
	}
}

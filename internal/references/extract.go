// Package references 从内容字段中提取引用的媒体 URL
package references

import (
	"encoding/json"
	"strings"
)

// Kind 字段类型
type Kind int

const (
	// Direct 字段值本身就是一个图片 URL
	Direct Kind = iota
	// RichText 字段值是块结构文档
	RichText
)

func (k Kind) String() string {
	if k == RichText {
		return "richtext"
	}
	return "direct"
}

type document struct {
	Blocks []block `json:"blocks"`
}

type block struct {
	Type string    `json:"type"`
	Data blockData `json:"data"`
}

type blockData struct {
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
}

// Extract 按字段类型提取 URL，保留顺序，允许重复
func Extract(kind Kind, value string) []string {
	if kind == RichText {
		return FromDocument(value)
	}
	return FromURL(value)
}

// FromURL 直接 URL 字段，空值没有引用
func FromURL(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return []string{value}
}

// FromDocument 扫描顶层块中 type 为 image 且带 data.file.url 的块
// 解析失败按零引用处理
func FromDocument(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var doc document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil
	}

	var urls []string
	for _, b := range doc.Blocks {
		if b.Type != "image" || b.Data.File == nil {
			continue
		}
		if u := strings.TrimSpace(b.Data.File.URL); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Distinct 按 key 去重，每个 key 保留首次出现的 URL
func Distinct(urls []string, key func(string) string) map[string]string {
	out := make(map[string]string, len(urls))
	for _, u := range urls {
		k := key(u)
		if _, ok := out[k]; !ok {
			out[k] = u
		}
	}
	return out
}

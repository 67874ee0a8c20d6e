package media

import (
	"net/url"
	"strings"
)

// NormalizePath 把公开 URL 还原为存储相对路径
// 去掉 scheme 和 host、开头的 API 前缀段、开头的上传前缀段以及前导斜杠
func NormalizePath(raw, apiPrefix, uploadPrefix string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}

	p = strings.TrimLeft(p, "/")
	p = trimSegment(p, apiPrefix)
	p = trimSegment(p, uploadPrefix)
	return strings.TrimLeft(p, "/")
}

func trimSegment(p, segment string) string {
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return p
	}
	if p == segment {
		return ""
	}
	if strings.HasPrefix(p, segment+"/") {
		return p[len(segment)+1:]
	}
	return p
}

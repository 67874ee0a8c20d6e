package utils

import (
	"strings"
	"unicode"
)

// SanitizeLogValue 去除不可打印字符并截断，用于把用户输入写入日志
func SanitizeLogValue(v string, max int) string {
	var sb strings.Builder
	for _, r := range v {
		if unicode.IsPrint(r) {
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if max > 0 && len(out) > max {
		out = out[:max] + "..."
	}
	return out
}

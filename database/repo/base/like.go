package base

import "strings"

// LikeEscape 放在 LIKE 占位符之后，配合 EscapeLike 使用
const LikeEscape = ` ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike 转义 LIKE 通配符
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// Contains 包含匹配的 LIKE 模式
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}

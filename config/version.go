package config

// 构建时通过 -ldflags 注入
var (
	Version    string = "dev"
	CommitHash string = ""
)

// IsProduction 判断是否为生产构建
func IsProduction() bool {
	return Version != "dev" && CommitHash != ""
}

package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`
	APIPrefix          string        `mapstructure:"api_prefix"`
	CORSAllowOrigins   []string      `mapstructure:"cors_allow_origins"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBSSLMode         string `mapstructure:"db_ssl_mode"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// 缓存提供者配置
	CacheType          string        `mapstructure:"cache_type"`
	CacheMaxSizeMB     int64         `mapstructure:"cache_max_size_mb"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheRedisAddr     string        `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string        `mapstructure:"cache_redis_password"`
	CacheRedisDB       int           `mapstructure:"cache_redis_db"`

	// 存储配置
	StorageType      string        `mapstructure:"storage_type"`
	StorageLocalPath string        `mapstructure:"storage_local_path"`
	MinioEndpoint    string        `mapstructure:"minio_endpoint"`
	MinioAccessKey   string        `mapstructure:"minio_access_key"`
	MinioSecretKey   string        `mapstructure:"minio_secret_key"`
	MinioBucket      string        `mapstructure:"minio_bucket"`
	MinioUseSSL      bool          `mapstructure:"minio_use_ssl"`
	WebDAVURL        string        `mapstructure:"webdav_url"`
	WebDAVUsername   string        `mapstructure:"webdav_username"`
	WebDAVPassword   string        `mapstructure:"webdav_password"`
	WebDAVRootPath   string        `mapstructure:"webdav_root_path"`
	WebDAVTimeout    time.Duration `mapstructure:"webdav_timeout"`

	// 上传配置
	UploadMaxSizeMB int    `mapstructure:"upload_max_size_mb"`
	UploadTempDir   string `mapstructure:"upload_temp_dir"`
	UploadURLPrefix string `mapstructure:"upload_url_prefix"`

	// JWT 配置
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTExpiresIn       time.Duration `mapstructure:"jwt_expires_in"`
	JWTRefreshExpireIn time.Duration `mapstructure:"jwt_refresh_expires_in"`

	// 限流配置
	RateLimitApiRPS      float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst    int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS     float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst   int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitPublicRPS   float64       `mapstructure:"rate_limit_public_rps"`
	RateLimitPublicBurst int           `mapstructure:"rate_limit_public_burst"`
	RateLimitExpireTime  time.Duration `mapstructure:"rate_limit_expire_time"`

	// 日志配置
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`

	// 媒体清理任务
	MediaSweepEnabled bool          `mapstructure:"media_sweep_enabled"`
	MediaSweepCron    string        `mapstructure:"media_sweep_cron"`
	MediaSweepMinAge  time.Duration `mapstructure:"media_sweep_min_age"`
	TempCleanupMaxAge time.Duration `mapstructure:"temp_cleanup_max_age"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	SwaggerEnabled    bool          `mapstructure:"swagger_enabled"`

	// 初始管理员
	AdminEmail    string `mapstructure:"admin_email"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	configFile := viper.GetString("config_file_path")
	if configFile == "" {
		configFile = ".env"
	}
	viper.SetConfigFile(configFile)
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Info: %s not found, using defaults and environment variables\n", configFile)
	} else {
		fmt.Fprintf(os.Stderr, "Info: Loaded configuration from %s\n", configFile)
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		_ = viper.BindEnv(key)
	}

	if err := Decode(viper.AllSettings(), &globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
	globalConfig.normalize()
}

// Decode 将键值映射解码为 Config，逗号分隔的字符串会被拆分为切片
func Decode(settings map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(settings)
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 3000)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "60s")
	viper.SetDefault("server_idle_timeout", "120s")
	viper.SetDefault("api_prefix", "api")
	viper.SetDefault("cors_allow_origins", "http://localhost:3000")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "utg")
	viper.SetDefault("db_ssl_mode", "disable")
	viper.SetDefault("db_file_path", "./data/utg.db")
	viper.SetDefault("db_max_open_conns", 50)
	viper.SetDefault("db_max_idle_conns", 10)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// 缓存配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_max_size_mb", 32)
	viper.SetDefault("cache_ttl", "10m")
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)

	// 存储配置默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./uploads")
	viper.SetDefault("minio_endpoint", "")
	viper.SetDefault("minio_access_key", "")
	viper.SetDefault("minio_secret_key", "")
	viper.SetDefault("minio_bucket", "utg-media")
	viper.SetDefault("minio_use_ssl", false)
	viper.SetDefault("webdav_url", "")
	viper.SetDefault("webdav_username", "")
	viper.SetDefault("webdav_password", "")
	viper.SetDefault("webdav_root_path", "/uploads")
	viper.SetDefault("webdav_timeout", "30s")

	// 上传配置默认值
	viper.SetDefault("upload_max_size_mb", 20)
	viper.SetDefault("upload_temp_dir", "./data/temp")
	viper.SetDefault("upload_url_prefix", "uploads")

	// JWT 配置默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "1h")
	viper.SetDefault("jwt_refresh_expires_in", "168h")

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_public_rps", 0.2)
	viper.SetDefault("rate_limit_public_burst", 3)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 日志配置默认值
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("log_file", "")
	viper.SetDefault("log_max_size_mb", 100)
	viper.SetDefault("log_max_backups", 5)
	viper.SetDefault("log_max_age_days", 30)

	viper.SetDefault("media_sweep_enabled", false)
	viper.SetDefault("media_sweep_cron", "30 3 * * *")
	viper.SetDefault("media_sweep_min_age", "72h")
	viper.SetDefault("temp_cleanup_max_age", "24h")
	viper.SetDefault("metrics_enabled", true)
	viper.SetDefault("swagger_enabled", false)

	viper.SetDefault("admin_email", "admin@example.com")
	viper.SetDefault("admin_username", "admin")
	viper.SetDefault("admin_password", "")
}

// normalize 清理路径前缀等派生值
func (c *Config) normalize() {
	c.APIPrefix = strings.Trim(c.APIPrefix, "/")
	c.UploadURLPrefix = strings.Trim(c.UploadURLPrefix, "/")
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "uploads"
	}
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 3000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return strings.TrimRight(c.ServerDomain, "/")
	}
	host := c.ServerHost
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

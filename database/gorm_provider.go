package database

import (
	"context"
	"fmt"
	"time"

	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/utils/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormProvider GORM 数据库提供者实现
type GormProvider struct {
	db     *gorm.DB
	dbType string
}

// NewGormProvider 根据配置创建 sqlite 或 postgres 连接
func NewGormProvider(cfg *config.Config) (*GormProvider, error) {
	gormCfg := &gorm.Config{
		Logger:                 newGormLogger(),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
	log := logger.Get()

	var (
		db     *gorm.DB
		err    error
		dbType = cfg.DBType
	)

	switch dbType {
	case "sqlite", "sqlite3", "":
		dbType = "sqlite"
		path := cfg.DBFilePath
		if path == "" {
			path = "./data/utg.db"
		}

		// WAL 模式 + 外键
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite3 database: %w", err)
		}
		log.Info().Str("path", path).Msg("Using SQLite database file")

	case "postgres", "postgresql":
		dbType = "postgres"
		sslMode := cfg.DBSSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUsername, cfg.DBPassword, cfg.DBName, sslMode)

		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
		}
		log.Info().Str("host", cfg.DBHost).Int("port", cfg.DBPort).Msg("Connected to PostgreSQL database")

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(orDefault(cfg.DBMaxOpenConns, 50))
	sqlDB.SetMaxIdleConns(orDefault(cfg.DBMaxIdleConns, 10))
	sqlDB.SetConnMaxLifetime(time.Duration(orDefault(cfg.DBConnMaxLifetime, 3600)) * time.Second)

	return &GormProvider{db: db, dbType: dbType}, nil
}

// NewProviderFromDB 包装已打开的 *gorm.DB，测试中使用
func NewProviderFromDB(db *gorm.DB) *GormProvider {
	return &GormProvider{db: db, dbType: db.Dialector.Name()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newGormLogger 把 gorm 日志桥接到 zerolog
func newGormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if !config.IsProduction() {
		level = gormlogger.Info
	}
	return gormlogger.New(
		logger.Get(),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// DB 返回底层 *gorm.DB 实例
func (p *GormProvider) DB() *gorm.DB {
	return p.db
}

// WithContext 返回带上下文的 *gorm.DB
func (p *GormProvider) WithContext(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx)
}

// TransactionWithContext 带上下文的事务执行
func (p *GormProvider) TransactionWithContext(ctx context.Context, fn TxFunc) error {
	return p.db.WithContext(ctx).Transaction(fn)
}

// AutoMigrate 自动迁移数据库结构
func (p *GormProvider) AutoMigrate(models ...interface{}) error {
	return p.db.AutoMigrate(models...)
}

// Ping 检查数据库连接
func (p *GormProvider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (p *GormProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	logger.Get().Info().Msg("Closing database connection...")
	return sqlDB.Close()
}

// Name 返回数据库名称
func (p *GormProvider) Name() string {
	return p.dbType
}

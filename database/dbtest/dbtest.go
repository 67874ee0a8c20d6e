// Package dbtest 为测试提供迁移好的内存 sqlite 数据库
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/engmhisham/utg-api/database"
)

// New 创建独立的内存数据库并迁移全部模型，测试结束时关闭
func New(t testing.TB) database.Provider {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，避免共享缓存下的表锁
	sqlDB.SetMaxOpenConns(1)

	p := database.NewProviderFromDB(db)
	require.NoError(t, database.Migrate(p))

	t.Cleanup(func() { _ = p.Close() })
	return p
}

package core

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/storage"
)

const healthCheckTimeout = 3 * time.Second

var errNotInitialized = errors.New("not initialized")

// HealthHandler 并行检查数据库、存储和缓存
type HealthHandler struct {
	db        database.Provider
	storage   storage.Provider
	cache     cache.Provider
	startTime time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db database.Provider, store storage.Provider, cp cache.Provider) *HealthHandler {
	return &HealthHandler{db: db, storage: store, cache: cp, startTime: time.Now()}
}

// Handle GET /health，任一检查失败返回 503
func (h *HealthHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := h.run(ctx)
	httpStatus := http.StatusOK
	status := "ok"
	for _, result := range checks {
		if result != "ok" {
			httpStatus = http.StatusServiceUnavailable
			status = "degraded"
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  status,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	})
}

func (h *HealthHandler) run(ctx context.Context) map[string]string {
	var mu sync.Mutex
	checks := make(map[string]string, 3)
	set := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = "error: " + err.Error()
			return
		}
		checks[name] = "ok"
	}

	// 检查结果写入 map，不让单个失败取消其它检查
	var g errgroup.Group
	g.Go(func() error {
		if h.db == nil {
			set("database", errNotInitialized)
			return nil
		}
		set("database", h.db.Ping(ctx))
		return nil
	})
	g.Go(func() error {
		if h.storage == nil {
			set("storage", errNotInitialized)
			return nil
		}
		set("storage", h.storage.Health(ctx))
		return nil
	})
	g.Go(func() error {
		if h.cache == nil {
			set("cache", errNotInitialized)
			return nil
		}
		set("cache", h.cache.Ping(ctx))
		return nil
	})
	_ = g.Wait()
	return checks
}

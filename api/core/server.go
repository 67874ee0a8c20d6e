package core

import (
	"net/http"

	"github.com/engmhisham/utg-api/internal/di"
)

// NewServer 创建 http.Server，cleanup 在关闭后调用
func NewServer(c *di.Container) (*http.Server, func()) {
	cfg := c.Config()
	router, cleanup := NewRouter(c)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}
	return srv, cleanup
}

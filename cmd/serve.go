package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/engmhisham/utg-api/api/core"
	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/internal/di"
	"github.com/engmhisham/utg-api/internal/scheduler"
	"github.com/engmhisham/utg-api/utils"
	"github.com/engmhisham/utg-api/utils/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	cfg := loadConfig()
	log := logger.Get()
	log.Info().Str("version", config.Version).Str("commit", config.CommitHash).Msg("starting utg-api")

	if err := os.MkdirAll(cfg.UploadTempDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create temp directory")
	}

	container := di.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	InitDatabase(container)

	sched, err := scheduler.New(container.Media, scheduler.Options{
		SweepEnabled: cfg.MediaSweepEnabled,
		SweepCron:    cfg.MediaSweepCron,
		SweepMinAge:  cfg.MediaSweepMinAge,
		TempDir:      cfg.UploadTempDir,
		TempMaxAge:   cfg.TempCleanupMaxAge,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()

	// 启动时清理残留临时文件
	utils.SafeGo("startup-temp-cleanup", func() {
		n, err := scheduler.CleanTempDir(cfg.UploadTempDir, cfg.TempCleanupMaxAge, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to clean temp directory")
			return
		}
		if n > 0 {
			log.Info().Int("removed", n).Msg("Removed stale temp files")
		}
	})

	server, cleanup := core.NewServer(container)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if cleanup != nil {
		cleanup()
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("Error stopping scheduler")
	}
	if err := container.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing container")
	}

	log.Info().Msg("Server exited successfully")
}

// InitDatabase 自动迁移并创建初始管理员
func InitDatabase(container *di.Container) {
	log := logger.Get()
	cfg := container.Config()
	log.Info().Str("type", container.DB().Name()).Msg("Initializing database")

	if err := container.MigrateDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate database")
	}

	if container.Users != nil && cfg.AdminPassword != "" {
		created, err := container.Users.EnsureAdmin(cmdContext(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create default admin user")
		} else if created {
			log.Info().Str("email", cfg.AdminEmail).Msg("Default admin user created")
		}
	}

	log.Info().Msg("Database initialized successfully")
}

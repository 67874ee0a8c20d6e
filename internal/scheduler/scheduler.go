// Package scheduler 后台定时任务：孤儿媒体清理与上传临时目录清理
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/utils/logger"
)

const (
	JobMediaSweep  = "media-sweep"
	JobTempCleanup = "temp-cleanup"

	tempCleanupInterval = time.Hour
)

// Options 任务配置
type Options struct {
	SweepEnabled bool
	SweepCron    string
	SweepMinAge  time.Duration
	TempDir      string
	TempMaxAge   time.Duration
}

// Sweeper 孤儿媒体清理
type Sweeper interface {
	SweepOrphans(ctx context.Context, minAge time.Duration, dryRun bool) (*media.SweepResult, error)
}

// Scheduler 包装 gocron 调度器
type Scheduler struct {
	scheduler gocron.Scheduler
	log       zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	jobs      map[string]gocron.Job
}

// New 创建调度器并注册任务，调用 Start 后开始运行
func New(sweeper Sweeper, opts Options) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sch := &Scheduler{
		scheduler: s,
		log:       logger.Named("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if opts.SweepEnabled && sweeper != nil {
		minAge := opts.SweepMinAge
		err := sch.add(JobMediaSweep, gocron.CronJob(opts.SweepCron, false), func(ctx context.Context) error {
			_, err := sweeper.SweepOrphans(ctx, minAge, false)
			return err
		})
		if err != nil {
			cancel()
			return nil, err
		}
	}

	if opts.TempDir != "" && opts.TempMaxAge > 0 {
		dir, maxAge := opts.TempDir, opts.TempMaxAge
		err := sch.add(JobTempCleanup, gocron.DurationJob(tempCleanupInterval), func(context.Context) error {
			_, err := CleanTempDir(dir, maxAge, time.Now())
			return err
		})
		if err != nil {
			cancel()
			return nil, err
		}
	}

	return sch, nil
}

func (s *Scheduler) add(name string, def gocron.JobDefinition, run func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
			}
		}()
		start := time.Now()
		if err := run(s.ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("Job failed")
			return
		}
		s.log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("Job finished")
	}

	j, err := s.scheduler.NewJob(def, gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", name, err)
	}
	s.jobs[name] = j
	s.log.Info().Str("job", name).Msg("Added job")
	return nil
}

// Jobs 已注册的任务名
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.jobs)).Msg("Starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器，等待正在运行的任务结束
func (s *Scheduler) Stop() error {
	s.log.Info().Msg("Stopping scheduler")
	s.cancel()
	return s.scheduler.Shutdown()
}

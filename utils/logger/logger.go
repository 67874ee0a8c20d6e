// Package logger 基于 zerolog 的全局日志，支持控制台/JSON 输出和 lumberjack 文件轮转
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 日志配置
type Options struct {
	Level      string
	Format     string // console | json
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	logger   = zerolog.New(os.Stderr).With().Timestamp().Logger()
	initOnce sync.Once
)

// Init 初始化全局 logger，只生效一次
func Init(opts Options) {
	initOnce.Do(func() {
		logger = build(opts)
		log.Logger = logger
	})
}

func build(opts Options) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		if opts.Level != "" {
			fmt.Fprintf(os.Stderr, "invalid log level %q, defaulting to info\n", opts.Level)
		}
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var writers []io.Writer
	if opts.Format == "json" {
		writers = append(writers, os.Stdout)
	} else {
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.DateTime
		}))
	}

	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	return zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
}

// Get 返回全局 logger
func Get() *zerolog.Logger {
	return &logger
}

// Named 返回带 component 字段的子 logger
func Named(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

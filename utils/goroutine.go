package utils

import "github.com/rs/zerolog/log"

// SafeGo 在独立 goroutine 中执行 fn，panic 时按任务名记录而不是让进程退出
func SafeGo(task string, fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Str("task", task).Interface("panic", err).Msg("background task panicked")
			}
		}()
		fn()
	}()
}

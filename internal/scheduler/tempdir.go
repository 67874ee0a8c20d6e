package scheduler

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/engmhisham/utg-api/utils/logger"
)

// CleanTempDir 删除上传临时目录中修改时间早于 maxAge 的普通文件，返回删除数量
func CleanTempDir(dir string, maxAge time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Get().Warn().Err(err).Str("path", p).Msg("failed to remove stale temp file")
			return nil
		}
		removed++
		return nil
	})
	if removed > 0 {
		logger.Get().Info().Int("removed", removed).Str("dir", dir).Msg("stale upload temp files removed")
	}
	return removed, err
}

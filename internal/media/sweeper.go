package media

import (
	"context"
	"errors"
	"time"
)

var sweepBatchSize = 200

// SweepResult 孤儿清理结果
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Removed int      `json:"removed"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	DryRun  bool     `json:"dryRun"`
	Paths   []string `json:"paths"`
}

// SweepOrphans 删除创建时间早于 minAge 且没有任何引用的媒体
// dryRun 时只列出候选，不做修改。每条记录最多尝试一次
func (s *Store) SweepOrphans(ctx context.Context, minAge time.Duration, dryRun bool) (*SweepResult, error) {
	before := time.Now().Add(-minAge)
	result := &SweepResult{DryRun: dryRun, Paths: []string{}}

	afterID := ""
	for {
		items, err := s.repo.ListUnused(ctx, before, afterID, sweepBatchSize)
		if err != nil {
			return result, err
		}
		result.Scanned += len(items)

		for _, m := range items {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.Paths = append(result.Paths, m.Path)
			if dryRun {
				continue
			}
			err := s.Remove(ctx, m.ID)
			switch {
			case err == nil:
				result.Removed++
			case errors.Is(err, ErrNotFound):
				// 已被并发删除
			case errors.Is(err, ErrInUse):
				// 扫描之后刚被引用
				result.Skipped++
			default:
				s.log.Error().Err(err).Str("id", m.ID).Msg("failed to sweep orphan media")
				result.Failed++
			}
		}

		if len(items) < sweepBatchSize {
			break
		}
		afterID = items[len(items)-1].ID
	}

	s.log.Info().
		Int("scanned", result.Scanned).
		Int("removed", result.Removed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Bool("dry_run", dryRun).
		Msg("orphan media sweep finished")
	return result, nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/engmhisham/utg-api/internal/di"
	"github.com/engmhisham/utg-api/internal/scheduler"
	"github.com/engmhisham/utg-api/utils/logger"
)

// cleanCmd 清理无引用媒体和临时文件
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove orphan media and stale temp files",
	Long: `Remove orphan media and stale temp files.
This includes:
  - Delete media whose usage list is empty and that is older than --min-age
  - Delete upload temp files older than TEMP_CLEANUP_MAX_AGE`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		minAge, _ := cmd.Flags().GetDuration("min-age")
		tempOnly, _ := cmd.Flags().GetBool("temp-only")

		if err := runClean(dryRun, minAge, tempOnly); err != nil {
			logger.Get().Fatal().Err(err).Msg("Clean failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
	cleanCmd.Flags().Duration("min-age", 0, "Minimum media age (defaults to MEDIA_SWEEP_MIN_AGE)")
	cleanCmd.Flags().Bool("temp-only", false, "Only clean temp files")
}

// runClean 执行清理
func runClean(dryRun bool, minAge time.Duration, tempOnly bool) error {
	cfg := loadConfig()

	if !dryRun {
		n, err := scheduler.CleanTempDir(cfg.UploadTempDir, cfg.TempCleanupMaxAge, time.Now())
		if err != nil {
			return fmt.Errorf("failed to clean temp directory: %w", err)
		}
		fmt.Printf("Temp files removed: %d\n", n)
	}
	if tempOnly {
		return nil
	}

	container := di.NewContainer(cfg)
	if err := container.Init(); err != nil {
		return err
	}
	defer container.Close()

	if minAge <= 0 {
		minAge = cfg.MediaSweepMinAge
	}
	result, err := container.Media.SweepOrphans(cmdContext(), minAge, dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Orphan media older than %s (dry run): %d\n", minAge, result.Scanned)
	} else {
		fmt.Printf("Orphan media removed: %d (skipped %d, failed %d)\n", result.Removed, result.Skipped, result.Failed)
	}
	for _, p := range result.Paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

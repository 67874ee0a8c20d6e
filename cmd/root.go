package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/utils/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "utg-api",
	Short: "Marketing site CMS backend",
	Run: func(cmd *cobra.Command, args []string) {
		serveCmd.Run(cmd, args)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (eg: /etc/utg-api/.env)")
	err := viper.BindPFlag("config_file_path", rootCmd.PersistentFlags().Lookup("config"))
	if err != nil {
		return
	}
}

// loadConfig 加载配置并初始化全局日志
func loadConfig() *config.Config {
	config.InitConfig()
	cfg := config.Get()
	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	return cfg
}

// cmdContext 命令行操作的审计身份
func cmdContext() context.Context {
	return audit.WithActor(context.Background(), audit.Actor{Username: "cli"})
}

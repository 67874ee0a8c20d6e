package cmd

import (
	"github.com/spf13/cobra"

	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/di"
	"github.com/engmhisham/utg-api/internal/users"
	"github.com/engmhisham/utg-api/utils/logger"
)

// migrateCmd 数据库迁移命令
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration",
	Long: `Create or update all tables for the configured database.

Examples:
  # Migrate and create the initial admin from ADMIN_EMAIL / ADMIN_PASSWORD
  utg-api migrate --seed-admin`,
	Run: func(cmd *cobra.Command, args []string) {
		seed, _ := cmd.Flags().GetBool("seed-admin")
		runMigrate(seed)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("seed-admin", false, "Create the initial admin user when no admin exists")
}

func runMigrate(seed bool) {
	cfg := loadConfig()
	log := logger.Get()

	container := di.NewContainer(cfg)
	if err := container.InitDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer container.Close()

	if err := container.MigrateDatabase(); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	if !seed {
		return
	}
	if cfg.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_PASSWORD must be set to seed the admin user")
	}
	svc := users.NewService(container.DB(), audit.NewService(container.DB()))
	created, err := svc.EnsureAdmin(cmdContext(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("Admin user created")
	} else {
		log.Info().Msg("Admin user already exists, skipped")
	}
}

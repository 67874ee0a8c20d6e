package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/di"
	"github.com/engmhisham/utg-api/internal/users"
	"github.com/engmhisham/utg-api/utils/logger"
)

// userCmd 用户管理
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management tools",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user directly in the database.

Examples:
  utg-api user create --username editor --email editor@example.com --password s3cret-pass --role content_support`,
	Run: func(cmd *cobra.Command, args []string) {
		in := users.CreateInput{}
		in.Username, _ = cmd.Flags().GetString("username")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		in.Role = models.Role(role)

		if err := runUserCreate(in); err != nil {
			logger.Get().Fatal().Err(err).Msg("Failed to create user")
		}
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().String("username", "", "Username")
	userCreateCmd.Flags().String("email", "", "Email")
	userCreateCmd.Flags().String("password", "", "Password (min 8 characters)")
	userCreateCmd.Flags().String("role", string(models.RoleAdmin), "Role: admin or content_support")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func runUserCreate(in users.CreateInput) error {
	cfg := loadConfig()

	container := di.NewContainer(cfg)
	if err := container.InitDatabase(); err != nil {
		return err
	}
	defer container.Close()

	svc := users.NewService(container.DB(), audit.NewService(container.DB()))
	u, err := svc.Create(cmdContext(), in)
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (%s) with role %s\n", u.Username, u.ID, u.Role)
	return nil
}

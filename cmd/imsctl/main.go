package main

import (
	"context"
	"fmt"
	"os"

	"inventory-api/internal/config"
	"inventory-api/internal/database"
	"inventory-api/internal/notify"
	"inventory-api/internal/router"
	"inventory-api/internal/service"
	"inventory-api/pkg/jwt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:          "imsctl",
		Short:        "inventory management maintenance tasks",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yaml and .env")

	rootCmd.AddCommand(
		migrateCommand(&configDir),
		seedAdminCommand(&configDir),
		resetPasswordCommand(&configDir),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(configDir string) (config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, nil, err
	}
	db, err := database.NewConnection(cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return cfg, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func services(configDir string) (router.Services, error) {
	cfg, db, err := connect(configDir)
	if err != nil {
		return router.Services{}, err
	}
	if err := database.Migrate(db); err != nil {
		return router.Services{}, fmt.Errorf("migrate: %w", err)
	}
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	return router.NewServices(cfg, db, tokens, notify.Nop{}), nil
}

func migrateCommand(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect(*configDir)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema is up to date")
			return nil
		},
	}
}

func seedAdminCommand(configDir *string) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "create an admin user unless the email already exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := services(*configDir)
			if err != nil {
				return err
			}
			user, created, err := svc.Users.SeedAdmin(context.Background(), service.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
			} else {
				fmt.Printf("Admin %s already exists\n", user.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func resetPasswordCommand(configDir *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "set a new password for an admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := services(*configDir)
			if err != nil {
				return err
			}
			if err := svc.Users.SetPassword(context.Background(), email, password); err != nil {
				return err
			}
			fmt.Printf("Password updated for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "new password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

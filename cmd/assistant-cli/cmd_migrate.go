package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/infrastructure"
	"github.com/janhq/chat-assistant/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema migrations",
	Long:  `Creates the chat_assistant schema and applies pending migrations. Requires STORE_DRIVER=postgres and DATABASE_URL.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := infrastructure.ProvideConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return fmt.Errorf("migrate requires STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.StoreDriver)
	}

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    database.LogLevelFor(cfg.LogLevel),
	})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(context.Background(), db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

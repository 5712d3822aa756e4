package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/janhq/chat-assistant/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assistant-cli",
	Short: "Operational commands for the chat assistant",
	Long: `assistant-cli runs maintenance tasks against the same configuration as the server.

Examples:
  # Push every conversation to the Monday.com board
  assistant-cli board-sync

  # Apply the Postgres migrations
  assistant-cli migrate

  # Check the environment before deploying
  assistant-cli config validate`,
	Version: config.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return loadEnvFile(envFile)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(boardSyncCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load before reading configuration")
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

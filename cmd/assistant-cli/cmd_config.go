package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/janhq/chat-assistant/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
	Long:  `Validate and inspect the environment backed configuration.`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Loads the configuration from the environment and reports the first error.`,
	RunE:  runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration values",
	Long:  `Prints the effective configuration as YAML with secrets masked.`,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid (store=%s, mode=%s, history=%s)\n", cfg.StoreDriver, cfg.AssistantMode, cfg.HistoryMode)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(summarize(cfg))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

type configSummary struct {
	HTTPPort        int      `yaml:"http_port"`
	MetricsPort     int      `yaml:"metrics_port"`
	CORSOrigins     []string `yaml:"cors_allowed_origins"`
	StoreDriver     string   `yaml:"store_driver"`
	MongoURI        string   `yaml:"mongodb_uri,omitempty"`
	DatabaseURL     string   `yaml:"database_url,omitempty"`
	AuthRequired    bool     `yaml:"auth_required"`
	JWTSecret       string   `yaml:"jwt_secret"`
	OpenAIAPIKey    string   `yaml:"openai_api_key"`
	OpenAIBaseURL   string   `yaml:"openai_base_url"`
	ChatModel       string   `yaml:"chat_model"`
	TitleModel      string   `yaml:"title_model"`
	Moderation      bool     `yaml:"moderation_enabled"`
	AssistantMode   string   `yaml:"assistant_mode"`
	HistoryMode     string   `yaml:"history_mode"`
	TitleThresholds []int    `yaml:"title_thresholds"`
	MondayToken     string   `yaml:"monday_api_token,omitempty"`
	CatalogBoard    string   `yaml:"monday_catalog_board_id,omitempty"`
	ConvBoard       string   `yaml:"monday_conversation_board_id,omitempty"`
	BoardSync       bool     `yaml:"board_sync_enabled"`
	BoardSyncCron   string   `yaml:"board_sync_cron"`
	LogLevel        string   `yaml:"log_level"`
	LogFormat       string   `yaml:"log_format"`
}

func summarize(cfg *config.Config) configSummary {
	return configSummary{
		HTTPPort:        cfg.HTTPPort,
		MetricsPort:     cfg.MetricsPort,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		StoreDriver:     cfg.StoreDriver,
		MongoURI:        maskURL(cfg.MongoURI),
		DatabaseURL:     maskURL(cfg.DatabaseURL),
		AuthRequired:    cfg.AuthRequired,
		JWTSecret:       mask(cfg.JWTSecret),
		OpenAIAPIKey:    mask(cfg.OpenAIAPIKey),
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		ChatModel:       cfg.ChatModel,
		TitleModel:      cfg.TitleModel,
		Moderation:      cfg.ModerationEnable,
		AssistantMode:   cfg.AssistantMode,
		HistoryMode:     cfg.HistoryMode,
		TitleThresholds: cfg.TitleThresholds,
		MondayToken:     mask(cfg.MondayAPIToken),
		CatalogBoard:    cfg.MondayCatalogBoardID,
		ConvBoard:       cfg.MondayConversationBoardID,
		BoardSync:       cfg.BoardSyncEnabled,
		BoardSyncCron:   cfg.BoardSyncCron,
		LogLevel:        cfg.LogLevel,
		LogFormat:       cfg.LogFormat,
	}
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// maskURL hides the password of a connection string.
func maskURL(raw string) string {
	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return raw
	}
	creds, host, found := strings.Cut(rest, "@")
	if !found {
		return raw
	}
	user, _, hasPassword := strings.Cut(creds, ":")
	if !hasPassword {
		return raw
	}
	return scheme + "://" + user + ":****@" + host
}

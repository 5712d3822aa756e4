package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	AssistantModeGeneral = "general"
	AssistantModeCatalog = "catalog"

	HistoryModeFull             = "full"
	HistoryModePreviousResponse = "previous_response"
)

var globalConfig *Config

// Config holds all environment backed configuration for the chat assistant.
type Config struct {
	// HTTP Server
	HTTPPort           int           `env:"HTTP_PORT" envDefault:"3000"`
	MetricsPort        int           `env:"METRICS_PORT" envDefault:"9091"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Storage
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI       string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase  string        `env:"MONGODB_DATABASE" envDefault:"chat_assistant"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	AutoMigrate    bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`

	// Auth
	JWTSecret    string        `env:"JWT_SECRET,notEmpty"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"8760h"`
	AuthRequired bool          `env:"AUTH_REQUIRED" envDefault:"false"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`

	// Model Provider
	OpenAIAPIKey     string  `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIBaseURL    string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel        string  `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	ChatTemperature  float32 `env:"CHAT_TEMPERATURE" envDefault:"0.2"`
	ChatMaxTokens    int     `env:"CHAT_MAX_TOKENS" envDefault:"0"`
	TitleModel       string  `env:"TITLE_MODEL" envDefault:"gpt-4o-mini"`
	ModerationModel  string  `env:"MODERATION_MODEL" envDefault:"omni-moderation-latest"`
	ModerationEnable bool    `env:"MODERATION_ENABLED" envDefault:"true"`

	// Assistant behaviour
	AssistantMode     string `env:"ASSISTANT_MODE" envDefault:"general"`
	HistoryMode       string `env:"HISTORY_MODE" envDefault:"full"`
	TitleThresholds   []int  `env:"TITLE_THRESHOLDS" envSeparator:"," envDefault:"2,10"`
	ContentPolicyFile string `env:"CONTENT_POLICY_FILE"`
	DefaultLanguage   string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Catalog variant
	CatalogCacheTTL       time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	CatalogHistoryTurns   int           `env:"CATALOG_HISTORY_TURNS" envDefault:"10"`
	CatalogPromptMaxChars int           `env:"CATALOG_PROMPT_MAX_CHARS" envDefault:"12000"`
	CatalogReplyMaxWords  int           `env:"CATALOG_REPLY_MAX_WORDS" envDefault:"120"`

	// Monday.com board integration
	MondayAPIURL              string `env:"MONDAY_API_URL" envDefault:"https://api.monday.com/v2"`
	MondayAPIToken            string `env:"MONDAY_API_TOKEN"`
	MondayCatalogBoardID      string `env:"MONDAY_CATALOG_BOARD_ID"`
	MondayConversationBoardID string `env:"MONDAY_CONVERSATION_BOARD_ID"`
	MondayColumnConversation  string `env:"MONDAY_COLUMN_CONVERSATION_ID" envDefault:"text_conversation_id"`
	MondayColumnUser          string `env:"MONDAY_COLUMN_USER_ID" envDefault:"text_user_id"`
	MondayColumnDate          string `env:"MONDAY_COLUMN_LAST_UPDATE" envDefault:"date_last_update"`
	MondayColumnMessages      string `env:"MONDAY_COLUMN_MESSAGES" envDefault:"long_text_messages"`
	MondayColumnPrice         string `env:"MONDAY_COLUMN_PRICE" envDefault:"numbers_price"`
	MondayColumnStock         string `env:"MONDAY_COLUMN_STOCK" envDefault:"numbers_stock"`
	MondayColumnDiscount      string `env:"MONDAY_COLUMN_DISCOUNT" envDefault:"numbers_discount"`
	MondayColumnCategory      string `env:"MONDAY_COLUMN_CATEGORY" envDefault:"text_category"`
	MondayColumnDescription   string `env:"MONDAY_COLUMN_DESCRIPTION" envDefault:"long_text_description"`
	MondayColumnURL           string `env:"MONDAY_COLUMN_URL" envDefault:"link_url"`
	BoardMirrorOnChat         bool   `env:"BOARD_MIRROR_ON_CHAT" envDefault:"false"`
	BoardSyncEnabled          bool   `env:"BOARD_SYNC_ENABLED" envDefault:"false"`
	BoardSyncCron             string `env:"BOARD_SYNC_CRON" envDefault:"0 * * * *"`

	BoardSyncInterval time.Duration `env:"BOARD_SYNC_ITEM_INTERVAL" envDefault:"400ms"`

	// Background tasks
	BackgroundWorkers     int           `env:"BACKGROUND_WORKERS" envDefault:"8"`
	BackgroundTaskTimeout time.Duration `env:"BACKGROUND_TASK_TIMEOUT" envDefault:"2m"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"chat-assistant"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"jan"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.AssistantMode = strings.ToLower(strings.TrimSpace(cfg.AssistantMode))
	cfg.HistoryMode = strings.ToLower(strings.TrimSpace(cfg.HistoryMode))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.EnvReloadedAt = time.Now()
	globalConfig = cfg

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if _, err := url.Parse(c.MongoURI); err != nil {
			return fmt.Errorf("invalid MONGODB_URI: %w", err)
		}
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if !slices.Contains([]string{AssistantModeGeneral, AssistantModeCatalog}, c.AssistantMode) {
		return fmt.Errorf("unsupported ASSISTANT_MODE %q", c.AssistantMode)
	}
	if !slices.Contains([]string{HistoryModeFull, HistoryModePreviousResponse}, c.HistoryMode) {
		return fmt.Errorf("unsupported HISTORY_MODE %q", c.HistoryMode)
	}
	if c.AssistantMode == AssistantModeCatalog && (c.MondayCatalogBoardID == "" || !c.BoardConfigured()) {
		return fmt.Errorf("MONDAY_API_TOKEN and MONDAY_CATALOG_BOARD_ID are required when ASSISTANT_MODE=%s", AssistantModeCatalog)
	}
	if (c.BoardSyncEnabled || c.BoardMirrorOnChat) && (c.MondayConversationBoardID == "" || !c.BoardConfigured()) {
		return fmt.Errorf("MONDAY_API_TOKEN and MONDAY_CONVERSATION_BOARD_ID are required when board sync is enabled")
	}
	if _, err := url.ParseRequestURI(c.OpenAIBaseURL); err != nil {
		return fmt.Errorf("invalid OPENAI_BASE_URL: %w", err)
	}
	for _, threshold := range c.TitleThresholds {
		if threshold <= 0 {
			return fmt.Errorf("TITLE_THRESHOLDS must be positive, got %d", threshold)
		}
	}
	return nil
}

// BoardConfigured reports whether Monday.com credentials are present.
func (c *Config) BoardConfigured() bool {
	return strings.TrimSpace(c.MondayAPIToken) != ""
}

// GetGlobal returns the config loaded last, for consumers outside the wire graph.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}

package infrastructure

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/domain/boardsync"
	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/domain/chat"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/infrastructure/auth"
	"github.com/janhq/chat-assistant/internal/infrastructure/crontab"
	"github.com/janhq/chat-assistant/internal/infrastructure/database"
	"github.com/janhq/chat-assistant/internal/infrastructure/database/repository/conversationrepo"
	"github.com/janhq/chat-assistant/internal/infrastructure/database/repository/userrepo"
	"github.com/janhq/chat-assistant/internal/infrastructure/llmprovider"
	"github.com/janhq/chat-assistant/internal/infrastructure/logger"
	"github.com/janhq/chat-assistant/internal/infrastructure/memstore"
	"github.com/janhq/chat-assistant/internal/infrastructure/monday"
	"github.com/janhq/chat-assistant/internal/infrastructure/mongodb"
	"github.com/janhq/chat-assistant/internal/infrastructure/tasks"
	"github.com/janhq/chat-assistant/internal/utils/httpclients"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger replaces the global logger with one built from LOG_LEVEL and LOG_FORMAT.
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
}

// Store is the persistence backend selected by STORE_DRIVER.
type Store struct {
	Driver        string
	Conversations conversation.ConversationRepository
	Users         user.UserRepository
	ping          func(ctx context.Context) error
}

// NewStore wraps repositories with a readiness check. A nil ping is always ready.
func NewStore(driver string, conversations conversation.ConversationRepository, users user.UserRepository, ping func(ctx context.Context) error) *Store {
	return &Store{Driver: driver, Conversations: conversations, Users: users, ping: ping}
}

// Ping reports whether the backend is reachable. The memory store is always ready.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// ProvideStore connects the configured backend and returns a cleanup that closes it.
func ProvideStore(cfg *config.Config, log zerolog.Logger) (*Store, func(), error) {
	ctx := context.Background()

	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		store, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.StoreTimeout,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Failed to disconnect from mongodb")
			}
		}
		return NewStore(cfg.StoreDriver, mongodb.NewConversationRepository(store), mongodb.NewUserRepository(store), store.Ping), cleanup, nil

	case config.StoreDriverPostgres:
		db, err := database.Connect(database.Config{
			DatabaseURL: cfg.DatabaseURL,
			MaxIdle:     cfg.DBMaxIdleConns,
			MaxOpen:     cfg.DBMaxOpenConns,
			MaxLifetime: cfg.DBConnLifetime,
			LogLevel:    database.LogLevelFor(cfg.LogLevel),
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			log.Info().Msg("Running database migrations...")
			if err := database.AutoMigrate(ctx, db); err != nil {
				log.Error().Err(err).Msg("Failed to run database migrations")
				_ = database.Close(db)
				return nil, nil, err
			}
		}
		cleanup := func() {
			if err := database.Close(db); err != nil {
				log.Warn().Err(err).Msg("Failed to close database")
			}
		}
		ping := func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}
		return NewStore(cfg.StoreDriver, conversationrepo.NewConversationGormRepository(db), userrepo.NewUserGormRepository(db), ping), cleanup, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using the in-memory store; data is lost on restart")
		return NewStore(cfg.StoreDriver, memstore.NewConversationStore(), memstore.NewUserStore(), nil), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}

func ProvideConversationRepository(store *Store) conversation.ConversationRepository {
	return store.Conversations
}

func ProvideUserRepository(store *Store) user.UserRepository {
	return store.Users
}

// ProvideLLMClient provides the chat completion and responses client.
func ProvideLLMClient(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(httpclients.NewClient("openai", cfg.HTTPTimeout), cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
}

// ProvideModerationChecker returns nil when MODERATION_ENABLED is false.
func ProvideModerationChecker(cfg *config.Config) policy.Checker {
	if !cfg.ModerationEnable {
		return nil
	}
	return policy.NewModerationChecker(llmprovider.NewModerationClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModerationModel, cfg.HTTPTimeout))
}

// ProvideMondayClient returns nil when no Monday.com token is configured.
func ProvideMondayClient(cfg *config.Config) *monday.Client {
	if !cfg.BoardConfigured() {
		return nil
	}
	return monday.NewClient(httpclients.NewClient("monday", cfg.HTTPTimeout), monday.Config{
		APIURL:              cfg.MondayAPIURL,
		Token:               cfg.MondayAPIToken,
		ConversationBoardID: cfg.MondayConversationBoardID,
		CatalogBoardID:      cfg.MondayCatalogBoardID,
		Columns: monday.Columns{
			ConversationID: cfg.MondayColumnConversation,
			UserID:         cfg.MondayColumnUser,
			Date:           cfg.MondayColumnDate,
			Messages:       cfg.MondayColumnMessages,
		},
		CatalogColumns: monday.CatalogColumns{
			Price:       cfg.MondayColumnPrice,
			Stock:       cfg.MondayColumnStock,
			Discount:    cfg.MondayColumnDiscount,
			Category:    cfg.MondayColumnCategory,
			Description: cfg.MondayColumnDescription,
			URL:         cfg.MondayColumnURL,
		},
	})
}

// ProvideCatalogCache returns nil outside the catalog assistant mode.
func ProvideCatalogCache(cfg *config.Config, client *monday.Client, log zerolog.Logger) *catalog.Cache {
	if cfg.AssistantMode != config.AssistantModeCatalog || client == nil {
		return nil
	}
	return catalog.NewCache(monday.NewCatalogBoard(client), cfg.CatalogCacheTTL, log)
}

// ProvideBoardSyncService returns nil when no conversation board is configured.
func ProvideBoardSyncService(cfg *config.Config, client *monday.Client, conversations *conversation.ConversationService, log zerolog.Logger) *boardsync.BoardSyncService {
	if client == nil || cfg.MondayConversationBoardID == "" {
		return nil
	}
	return boardsync.NewBoardSyncService(client, conversations, cfg.BoardSyncInterval, log)
}

func ProvideDispatcher(cfg *config.Config, log zerolog.Logger) *tasks.Dispatcher {
	return tasks.NewDispatcher(cfg.BackgroundWorkers, cfg.BackgroundTaskTimeout, log)
}

func ProvideJWTManager(cfg *config.Config) (*auth.JWTManager, error) {
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
}

// Infrastructure holds the infrastructure dependencies the process manages directly.
type Infrastructure struct {
	Store      *Store
	Dispatcher *tasks.Dispatcher
	Crontab    *crontab.Crontab
	Logger     zerolog.Logger
}

func NewInfrastructure(store *Store, dispatcher *tasks.Dispatcher, ctab *crontab.Crontab, logger zerolog.Logger) *Infrastructure {
	return &Infrastructure{
		Store:      store,
		Dispatcher: dispatcher,
		Crontab:    ctab,
		Logger:     logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,
	ProvideLogger,

	// Persistence
	ProvideStore,
	ProvideConversationRepository,
	ProvideUserRepository,

	// Model provider
	ProvideLLMClient,
	wire.Bind(new(llm.ChatModel), new(*llmprovider.Client)),
	wire.Bind(new(llm.ResponseModel), new(*llmprovider.Client)),
	ProvideModerationChecker,

	// Monday.com
	ProvideMondayClient,
	ProvideCatalogCache,
	ProvideBoardSyncService,

	// Background work
	ProvideDispatcher,
	wire.Bind(new(chat.Dispatcher), new(*tasks.Dispatcher)),
	crontab.NewCrontab,

	// Auth
	ProvideJWTManager,
	wire.Bind(new(user.TokenIssuer), new(*auth.JWTManager)),

	NewInfrastructure,
)

package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/config"
	"github.com/janhq/chat-assistant/internal/domain/boardsync"
	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/domain/chat"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/locale"
	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/domain/user"
)

// ProvidePolicyFile loads CONTENT_POLICY_FILE. It returns nil when none is configured.
func ProvidePolicyFile(cfg *config.Config) (*policy.File, error) {
	if cfg.ContentPolicyFile == "" {
		return nil, nil
	}
	return policy.LoadFile(cfg.ContentPolicyFile)
}

func ProvideKeywordChecker(file *policy.File) *policy.KeywordChecker {
	return policy.NewKeywordChecker(file.EffectiveKeywords())
}

// ProvideLocalizer applies the reply overrides of the policy file on top of the built-in texts.
func ProvideLocalizer(cfg *config.Config, file *policy.File, log zerolog.Logger) *locale.Localizer {
	localizer := locale.NewLocalizer(cfg.DefaultLanguage)
	if file == nil {
		return localizer
	}
	for key, translations := range file.Replies {
		for lang, text := range translations {
			if !localizer.Override(locale.Key(key), lang, text) {
				log.Warn().Str("key", key).Str("lang", lang).Msg("ignoring reply override for unsupported language")
			}
		}
	}
	return localizer
}

func ProvideUserService(repo user.UserRepository, tokens user.TokenIssuer, cfg *config.Config) *user.UserService {
	return user.NewUserService(repo, tokens, cfg.BcryptCost)
}

func ProvideTitleGenerator(model llm.ChatModel, conversations *conversation.ConversationService, cfg *config.Config, log zerolog.Logger) *title.Generator {
	return title.NewGenerator(model, conversations, cfg.TitleModel, log)
}

// ProvideChatOptions maps the assistant settings onto the chat service.
func ProvideChatOptions(cfg *config.Config) chat.Options {
	return chat.Options{
		AssistantMode:         cfg.AssistantMode,
		HistoryMode:           cfg.HistoryMode,
		Model:                 cfg.ChatModel,
		Temperature:           cfg.ChatTemperature,
		MaxTokens:             cfg.ChatMaxTokens,
		TitleThresholds:       title.Thresholds(cfg.TitleThresholds),
		MirrorOnChat:          cfg.BoardMirrorOnChat,
		CatalogHistoryTurns:   cfg.CatalogHistoryTurns,
		CatalogPromptMaxChars: cfg.CatalogPromptMaxChars,
		CatalogReplyMaxWords:  cfg.CatalogReplyMaxWords,
	}
}

func ProvideChatService(
	conversations *conversation.ConversationService,
	filter *policy.Filter,
	localizer *locale.Localizer,
	chatModel llm.ChatModel,
	responses llm.ResponseModel,
	products *catalog.Cache,
	titles *title.Generator,
	tasks chat.Dispatcher,
	boardSync *boardsync.BoardSyncService,
	opts chat.Options,
	log zerolog.Logger,
) *chat.ChatService {
	service := chat.NewChatService(conversations, filter, localizer, chatModel, responses, products, titles, tasks, opts, log)
	if boardSync != nil && opts.MirrorOnChat {
		service.WithMirror(boardSync)
	}
	return service
}

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Conversation domain
	conversation.NewConversationService,

	// Content policy
	ProvidePolicyFile,
	ProvideKeywordChecker,
	policy.NewFilter,
	ProvideLocalizer,

	// User domain
	ProvideUserService,

	// Chat domain
	ProvideTitleGenerator,
	ProvideChatOptions,
	ProvideChatService,
)

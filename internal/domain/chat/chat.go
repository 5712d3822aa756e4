package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/janhq/chat-assistant/internal/domain/title"
)

const MaxPromptLength = 1000

// Outcome labels how an exchange was answered.
type Outcome string

const (
	OutcomeAnswered           Outcome = "answered"
	OutcomeBlocked            Outcome = "blocked"
	OutcomeOutOfScope         Outcome = "out_of_scope"
	OutcomeCatalogUnavailable Outcome = "catalog_unavailable"
	OutcomeNoProducts         Outcome = "no_products"
	OutcomeProviderError      Outcome = "provider_error"
)

type Request struct {
	Prompt         string
	ConversationID string
	UserID         string
}

// Reply is the bot message stored for the exchange. ResponseID is the provider id when the
// model answered.
type Reply struct {
	Message    string
	ResponseID string
	Outcome    Outcome
}

const (
	AssistantModeGeneral = "general"
	AssistantModeCatalog = "catalog"

	HistoryModeFull             = "full"
	HistoryModePreviousResponse = "previous_response"
)

type Options struct {
	AssistantMode string
	HistoryMode   string

	Model       string
	Temperature float32
	MaxTokens   int

	TitleThresholds title.Thresholds
	MirrorOnChat    bool

	CatalogHistoryTurns   int
	CatalogPromptMaxChars int
	CatalogReplyMaxWords  int
}

// Dispatcher runs work after the request that scheduled it has been answered.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, fn func(ctx context.Context) error)
}

// Mirror copies a conversation to an external board.
type Mirror interface {
	MirrorConversation(ctx context.Context, conversationID string) error
}

// Prompt failures read as reasons for the prompt field.
var (
	errEmptyPrompt   = errors.New("is required")
	errPromptTooLong = fmt.Errorf("must be at most %d characters", MaxPromptLength)
)

// ValidatePrompt trims the prompt and checks its length.
func ValidatePrompt(prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", errEmptyPrompt
	}
	if utf8.RuneCountInString(trimmed) > MaxPromptLength {
		return "", errPromptTooLong
	}
	return trimmed, nil
}

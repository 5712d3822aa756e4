package title

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/infrastructure/observability"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
	"github.com/janhq/chat-assistant/internal/utils/stringutils"
)

const (
	FallbackTitle    = "Chat"
	maxTitleLength   = 60
	maxTitleWords    = 5
	titleTemperature = 0.7
	titleMaxTokens   = 20
	maxTranscript    = 2000
	titlePrompt      = "Generate a short, descriptive title (max 5 words) for this conversation:\n"
)

// Thresholds are the message counts at which a conversation gets a new title.
type Thresholds []int

// Reached reports whether count is one of the thresholds.
func (t Thresholds) Reached(count int) bool {
	return slices.Contains(t, count)
}

type Generator struct {
	model         llm.ChatModel
	conversations *conversation.ConversationService
	modelName     string
	log           zerolog.Logger
}

func NewGenerator(model llm.ChatModel, conversations *conversation.ConversationService, modelName string, log zerolog.Logger) *Generator {
	return &Generator{model: model, conversations: conversations, modelName: modelName, log: log}
}

// Generate summarises the conversation into a short title and stores it.
func (g *Generator) Generate(ctx context.Context, conversationID, userID string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "title.Generate")
	defer span.End()

	conv, err := g.conversations.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return "", err
	}

	title := FallbackTitle
	status := "fallback"
	if len(conv.Messages) > 0 {
		completion, err := g.model.CreateCompletion(ctx, llm.CompletionRequest{
			Model:       g.modelName,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: titlePrompt + Transcript(conv.Messages)}},
			Temperature: titleTemperature,
			MaxTokens:   titleMaxTokens,
		})
		if err != nil {
			metrics.RecordTitle("error")
			observability.RecordError(ctx, err)
			return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate title")
		}
		if generated := stringutils.GenerateTitle(stringutils.LimitWords(completion.Content, maxTitleWords), maxTitleLength); generated != "" {
			title = generated
			status = "generated"
		}
	}

	if _, err := g.conversations.UpdateTitle(ctx, conversationID, userID, title); err != nil {
		metrics.RecordTitle("error")
		return "", err
	}
	metrics.RecordTitle(status)
	g.log.Debug().Str("conversation_id", conversationID).Str("title", title).Msg("conversation title updated")
	return title, nil
}

// Transcript joins messages as "sender: text" lines, keeping the opening of the
// conversation when it runs past maxTranscript runes.
func Transcript(messages []conversation.Message) string {
	var b strings.Builder
	size := 0
	for i, m := range messages {
		line := fmt.Sprintf("%s: %s", m.Sender, m.Text)
		if i > 0 {
			line = "\n" + line
		}
		n := utf8.RuneCountInString(line)
		if size+n > maxTranscript {
			b.WriteString(string([]rune(line)[:maxTranscript-size]))
			break
		}
		b.WriteString(line)
		size += n
	}
	return b.String()
}

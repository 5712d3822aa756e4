package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/locale"
	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/infrastructure/observability"
	"github.com/janhq/chat-assistant/internal/utils/functional"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// ChatService runs one user turn: store the prompt, screen it, answer it, store the answer
// and schedule the follow-up work.
type ChatService struct {
	conversations *conversation.ConversationService
	filter        *policy.Filter
	localizer     *locale.Localizer
	chatModel     llm.ChatModel
	responses     llm.ResponseModel
	products      *catalog.Cache
	classifier    *catalog.Classifier
	titles        *title.Generator
	tasks         Dispatcher
	mirror        Mirror
	opts          Options
	now           func() time.Time
	log           zerolog.Logger
}

func NewChatService(
	conversations *conversation.ConversationService,
	filter *policy.Filter,
	localizer *locale.Localizer,
	chatModel llm.ChatModel,
	responses llm.ResponseModel,
	products *catalog.Cache,
	titles *title.Generator,
	tasks Dispatcher,
	opts Options,
	log zerolog.Logger,
) *ChatService {
	if opts.AssistantMode == "" {
		opts.AssistantMode = AssistantModeGeneral
	}
	if opts.HistoryMode == "" {
		opts.HistoryMode = HistoryModeFull
	}
	if opts.CatalogHistoryTurns <= 0 {
		opts.CatalogHistoryTurns = 10
	}
	return &ChatService{
		conversations: conversations,
		filter:        filter,
		localizer:     localizer,
		chatModel:     chatModel,
		responses:     responses,
		products:      products,
		classifier:    catalog.NewClassifier(),
		titles:        titles,
		tasks:         tasks,
		opts:          opts,
		now:           time.Now,
		log:           log,
	}
}

// WithMirror enables copying each conversation to the board after every exchange.
func (s *ChatService) WithMirror(mirror Mirror) *ChatService {
	s.mirror = mirror
	return s
}

func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// Send handles one exchange. Provider and catalog failures are answered with a stored
// apology; only validation and store errors are returned.
func (s *ChatService) Send(ctx context.Context, req Request) (*Reply, error) {
	ctx, span := observability.StartSpan(ctx, "chat.Send")
	defer span.End()

	prompt, err := ValidatePrompt(req.Prompt)
	if err != nil {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "prompt", err.Error(), nil, "c6e0a4b1-3b76-4f0e-a0f8-5a1c3d8f4e21")
	}
	observability.AddSpanAttributes(ctx,
		attribute.String("conversation.id", req.ConversationID),
		attribute.String("chat.assistant_mode", s.opts.AssistantMode),
	)

	conv, err := s.conversations.AppendMessage(ctx, req.ConversationID, req.UserID, conversation.NewUserMessage(prompt, s.now()))
	if err != nil {
		return nil, err
	}
	history := conv.Messages[:len(conv.Messages)-1]

	var reply Reply
	if verdict := s.filter.Evaluate(ctx, prompt); verdict.Blocked {
		reply = Reply{Message: s.localizer.MessageFor(locale.KeySafeReply, prompt), Outcome: OutcomeBlocked}
	} else if s.opts.AssistantMode == AssistantModeCatalog {
		reply = s.answerFromCatalog(ctx, prompt, history)
	} else if s.opts.HistoryMode == HistoryModePreviousResponse {
		reply = s.answerWithPreviousResponse(ctx, prompt, history)
	} else {
		reply = s.answerWithHistory(ctx, prompt, history)
	}

	storedID := ""
	if s.opts.AssistantMode == AssistantModeGeneral && s.opts.HistoryMode == HistoryModePreviousResponse {
		storedID = reply.ResponseID
	}
	conv, err = s.conversations.AppendMessage(ctx, req.ConversationID, req.UserID, conversation.NewBotMessage(reply.Message, storedID, s.now()))
	if err != nil {
		return nil, err
	}

	metrics.RecordChatOutcome(string(reply.Outcome))
	observability.AddSpanAttributes(ctx, attribute.String("chat.outcome", string(reply.Outcome)))
	s.afterExchange(ctx, conv)
	return &reply, nil
}

func (s *ChatService) answerWithHistory(ctx context.Context, prompt string, history []conversation.Message) Reply {
	messages := s.historyMessages(history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	completion, err := s.chatModel.CreateCompletion(ctx, llm.CompletionRequest{
		Model:       s.opts.Model,
		Messages:    messages,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	return s.replyFromCompletion(ctx, prompt, completion, err)
}

func (s *ChatService) answerWithPreviousResponse(ctx context.Context, prompt string, history []conversation.Message) Reply {
	previousID := ""
	if last, ok := functional.FindLast(history, s.linkable); ok {
		previousID = last.ID
	}

	completion, err := s.responses.CreateResponse(ctx, llm.ResponseRequest{
		Model:              s.opts.Model,
		Input:              prompt,
		PreviousResponseID: previousID,
		Temperature:        s.opts.Temperature,
		MaxOutputTokens:    s.opts.MaxTokens,
	})
	return s.replyFromCompletion(ctx, prompt, completion, err)
}

func (s *ChatService) answerFromCatalog(ctx context.Context, prompt string, history []conversation.Message) Reply {
	if !s.classifier.IsProductRelated(prompt, s.products.Peek()) {
		return Reply{Message: s.localizer.MessageFor(locale.KeyOutOfScope, prompt), Outcome: OutcomeOutOfScope}
	}

	products, err := s.products.Products(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("product catalog unavailable")
		return Reply{Message: s.localizer.MessageFor(locale.KeyCatalogUnavailable, prompt), Outcome: OutcomeCatalogUnavailable}
	}
	if len(products) == 0 {
		return Reply{Message: s.localizer.MessageFor(locale.KeyNoProducts, prompt), Outcome: OutcomeNoProducts}
	}

	messages := []llm.Message{{
		Role: llm.RoleSystem,
		Content: catalog.BuildSystemPrompt(products, catalog.PromptOptions{
			MaxChars: s.opts.CatalogPromptMaxChars,
			MaxWords: s.opts.CatalogReplyMaxWords,
		}),
	}}
	messages = append(messages, s.historyMessages(functional.TakeLast(history, s.opts.CatalogHistoryTurns))...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	completion, err := s.chatModel.CreateCompletion(ctx, llm.CompletionRequest{
		Model:       s.opts.Model,
		Messages:    messages,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	reply := s.replyFromCompletion(ctx, prompt, completion, err)
	if reply.Outcome == OutcomeAnswered {
		reply.Message = catalog.EnsureLimitedStockCallouts(reply.Message, products, s.localizer, prompt)
	}
	return reply
}

func (s *ChatService) replyFromCompletion(ctx context.Context, prompt string, completion *llm.Completion, err error) Reply {
	if err == nil && completion != nil && strings.TrimSpace(completion.Content) != "" {
		return Reply{Message: strings.TrimSpace(completion.Content), ResponseID: completion.ID, Outcome: OutcomeAnswered}
	}
	if err != nil {
		observability.RecordError(ctx, err)
		s.log.Error().Err(err).Str("model", s.opts.Model).Msg("model provider call failed")
	} else {
		s.log.Warn().Str("model", s.opts.Model).Msg("model provider returned an empty answer")
	}
	return Reply{Message: s.localizer.MessageFor(locale.KeyProviderFailure, prompt), Outcome: OutcomeProviderError}
}

// historyMessages maps stored messages to model roles, leaving out user prompts that hit
// the denylist.
func (s *ChatService) historyMessages(history []conversation.Message) []llm.Message {
	kept := functional.Filter(history, func(m conversation.Message) bool {
		return m.Sender == conversation.SenderBot || !s.filter.ContainsBlockedTopic(m.Text)
	})
	return functional.Map(kept, func(m conversation.Message) llm.Message {
		if m.Sender == conversation.SenderBot {
			return llm.Message{Role: llm.RoleAssistant, Content: m.Text}
		}
		return llm.Message{Role: llm.RoleUser, Content: m.Text}
	})
}

// linkable reports whether m can anchor previous-response linkage.
func (s *ChatService) linkable(m conversation.Message) bool {
	return m.Sender == conversation.SenderBot && m.ID != "" && !s.filter.ContainsBlockedTopic(m.Text)
}

func (s *ChatService) afterExchange(ctx context.Context, conv *conversation.Conversation) {
	if s.tasks == nil {
		return
	}
	conversationID, userID := conv.ConversationID, conv.UserID

	if s.titles != nil && s.opts.TitleThresholds.Reached(conv.MessageCount()) {
		s.tasks.Dispatch(ctx, "title", func(ctx context.Context) error {
			_, err := s.titles.Generate(ctx, conversationID, userID)
			return err
		})
	}
	if s.mirror != nil && s.opts.MirrorOnChat {
		s.tasks.Dispatch(ctx, "board_mirror", func(ctx context.Context) error {
			return s.mirror.MirrorConversation(ctx, conversationID)
		})
	}
}

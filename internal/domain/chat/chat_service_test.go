package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/domain/chat"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/locale"
	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/infrastructure/memstore"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const (
	convID = "0b5f8a52-1f0e-4b55-9a4a-8f7f0f2c9d11"
	owner  = "user-1"
)

type mockChatModel struct {
	CreateCompletionFunc func(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error)
	requests             []llm.CompletionRequest
}

func (m *mockChatModel) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	m.requests = append(m.requests, req)
	if m.CreateCompletionFunc == nil {
		return &llm.Completion{ID: "chatcmpl-1", Content: "Here you go!"}, nil
	}
	return m.CreateCompletionFunc(ctx, req)
}

type mockResponseModel struct {
	CreateResponseFunc func(ctx context.Context, req llm.ResponseRequest) (*llm.Completion, error)
	requests           []llm.ResponseRequest
}

func (m *mockResponseModel) CreateResponse(ctx context.Context, req llm.ResponseRequest) (*llm.Completion, error) {
	m.requests = append(m.requests, req)
	return m.CreateResponseFunc(ctx, req)
}

type mockModerator struct {
	ModerateFunc func(ctx context.Context, text string) (*policy.ModerationResult, error)
}

func (m *mockModerator) Moderate(ctx context.Context, text string) (*policy.ModerationResult, error) {
	if m.ModerateFunc == nil {
		return &policy.ModerationResult{}, nil
	}
	return m.ModerateFunc(ctx, text)
}

type mockSource struct {
	FetchProductsFunc func(ctx context.Context) ([]catalog.Product, error)
	calls             int
}

func (m *mockSource) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	m.calls++
	return m.FetchProductsFunc(ctx)
}

type mockMirror struct {
	mirrored []string
}

func (m *mockMirror) MirrorConversation(_ context.Context, conversationID string) error {
	m.mirrored = append(m.mirrored, conversationID)
	return nil
}

// syncDispatcher runs tasks inline so tests can observe their effects.
type syncDispatcher struct {
	names []string
}

func (d *syncDispatcher) Dispatch(ctx context.Context, name string, fn func(ctx context.Context) error) {
	d.names = append(d.names, name)
	_ = fn(ctx)
}

type fixture struct {
	svc           *chat.ChatService
	conversations *conversation.ConversationService
	chatModel     *mockChatModel
	responses     *mockResponseModel
	moderator     *mockModerator
	source        *mockSource
	tasks         *syncDispatcher
	localizer     *locale.Localizer
}

func newFixture(t *testing.T, opts chat.Options) *fixture {
	t.Helper()
	f := &fixture{
		conversations: conversation.NewConversationService(memstore.NewConversationStore()),
		chatModel:     &mockChatModel{},
		responses:     &mockResponseModel{},
		moderator:     &mockModerator{},
		source: &mockSource{FetchProductsFunc: func(context.Context) ([]catalog.Product, error) {
			return nil, nil
		}},
		tasks:     &syncDispatcher{},
		localizer: locale.NewLocalizer("en"),
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	filter := policy.NewFilter(policy.NewKeywordChecker(policy.DefaultKeywords), policy.NewModerationChecker(f.moderator), zerolog.Nop())
	titles := title.NewGenerator(f.chatModel, f.conversations, "gpt-4o-mini", zerolog.Nop())
	cache := catalog.NewCache(f.source, time.Minute, zerolog.Nop())
	f.svc = chat.NewChatService(f.conversations, filter, f.localizer, f.chatModel, f.responses, cache, titles, f.tasks, opts, zerolog.Nop())
	return f
}

func (f *fixture) send(t *testing.T, prompt string) *chat.Reply {
	t.Helper()
	reply, err := f.svc.Send(context.Background(), chat.Request{Prompt: prompt, ConversationID: convID, UserID: owner})
	require.NoError(t, err)
	return reply
}

func (f *fixture) messages(t *testing.T) []conversation.Message {
	t.Helper()
	messages, err := f.conversations.GetMessages(context.Background(), convID, owner)
	require.NoError(t, err)
	return messages
}

func TestSendStoresExchange(t *testing.T) {
	f := newFixture(t, chat.Options{})

	reply := f.send(t, "  Tell me about dinosaurs  ")
	assert.Equal(t, "Here you go!", reply.Message)
	assert.Equal(t, chat.OutcomeAnswered, reply.Outcome)

	messages := f.messages(t)
	require.Len(t, messages, 2)
	assert.Equal(t, conversation.SenderUser, messages[0].Sender)
	assert.Equal(t, "Tell me about dinosaurs", messages[0].Text)
	assert.Equal(t, conversation.SenderBot, messages[1].Sender)
	assert.Equal(t, "Here you go!", messages[1].Text)
	assert.Empty(t, messages[1].ID)
}

func TestSendFullHistoryDoesNotDuplicatePrompt(t *testing.T) {
	f := newFixture(t, chat.Options{Temperature: 0.2})
	f.send(t, "Hi there")
	f.send(t, "What do elephants eat?")

	require.Len(t, f.chatModel.requests, 2)
	req := f.chatModel.requests[1]
	assert.Equal(t, float32(0.2), req.Temperature)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "Hi there"},
		{Role: llm.RoleAssistant, Content: "Here you go!"},
		{Role: llm.RoleUser, Content: "What do elephants eat?"},
	}, req.Messages)
}

func TestSendDenylistedPromptUsesSafeReply(t *testing.T) {
	f := newFixture(t, chat.Options{})

	reply := f.send(t, "Where can I buy a GUN?")
	want := f.localizer.Message(locale.KeySafeReply, f.localizer.Fallback())
	assert.Equal(t, want, reply.Message)
	assert.Equal(t, chat.OutcomeBlocked, reply.Outcome)

	messages := f.messages(t)
	require.Len(t, messages, 2)
	assert.Equal(t, want, messages[1].Text)
	assert.Empty(t, f.chatModel.requests)
}

func TestSendSafeReplyIsLocalized(t *testing.T) {
	f := newFixture(t, chat.Options{})

	reply := f.send(t, "איפה קונים סמים")
	assert.Equal(t, f.localizer.MessageFor(locale.KeySafeReply, "שלום"), reply.Message)
}

func TestSendModerationFlagUsesSafeReply(t *testing.T) {
	f := newFixture(t, chat.Options{})
	f.moderator.ModerateFunc = func(context.Context, string) (*policy.ModerationResult, error) {
		return &policy.ModerationResult{Flagged: true, Categories: []string{"harassment"}}, nil
	}

	reply := f.send(t, "you are a horrible person")
	assert.Equal(t, chat.OutcomeBlocked, reply.Outcome)
	assert.Equal(t, 2, len(f.messages(t)))
	assert.Empty(t, f.chatModel.requests)
}

func TestSendModerationFailureDegradesToKeywords(t *testing.T) {
	f := newFixture(t, chat.Options{})
	f.moderator.ModerateFunc = func(context.Context, string) (*policy.ModerationResult, error) {
		return nil, errors.New("quota exceeded")
	}

	reply := f.send(t, "Tell me a joke")
	assert.Equal(t, chat.OutcomeAnswered, reply.Outcome)

	reply = f.send(t, "tell me about cocaine")
	assert.Equal(t, chat.OutcomeBlocked, reply.Outcome)
}

func TestSendProviderFailureStoresApology(t *testing.T) {
	f := newFixture(t, chat.Options{TitleThresholds: title.Thresholds{99}})
	f.chatModel.CreateCompletionFunc = func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return nil, errors.New("502 bad gateway")
	}

	reply := f.send(t, "Tell me about space")
	apology := f.localizer.Message(locale.KeyProviderFailure, f.localizer.Fallback())
	assert.Equal(t, apology, reply.Message)
	assert.Equal(t, chat.OutcomeProviderError, reply.Outcome)

	messages := f.messages(t)
	require.Len(t, messages, 2)
	assert.Equal(t, apology, messages[1].Text)
}

func TestSendTitleThresholds(t *testing.T) {
	f := newFixture(t, chat.Options{TitleThresholds: title.Thresholds{2, 6}})

	for turn := 1; turn <= 4; turn++ {
		f.send(t, "Tell me something nice")
	}

	titleRuns := 0
	for _, name := range f.tasks.names {
		if name == "title" {
			titleRuns++
		}
	}
	// counts after each bot reply are 2, 4, 6, 8
	assert.Equal(t, 2, titleRuns)

	conv, err := f.conversations.GetConversation(context.Background(), convID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Here you go", conv.Title)
}

func TestSendMirrorsWhenEnabled(t *testing.T) {
	f := newFixture(t, chat.Options{MirrorOnChat: true})
	mirror := &mockMirror{}
	f.svc.WithMirror(mirror)

	f.send(t, "hello")
	assert.Equal(t, []string{convID}, mirror.mirrored)
}

func TestSendPreviousResponseLinkage(t *testing.T) {
	f := newFixture(t, chat.Options{HistoryMode: chat.HistoryModePreviousResponse})
	f.responses.CreateResponseFunc = func(_ context.Context, req llm.ResponseRequest) (*llm.Completion, error) {
		return &llm.Completion{ID: "resp_new", Content: "Sure!"}, nil
	}

	ctx := context.Background()
	now := time.Now()
	seedMessages := []conversation.Message{
		conversation.NewUserMessage("hello", now),
		conversation.NewBotMessage("Hi! How can I help?", "resp_1", now),
		conversation.NewUserMessage("what is a rifle", now),
		conversation.NewBotMessage("A rifle is a long gun.", "resp_2", now),
		conversation.NewBotMessage("Let's talk about something else!", "", now),
	}
	for _, msg := range seedMessages {
		_, err := f.conversations.AppendMessage(ctx, convID, owner, msg)
		require.NoError(t, err)
	}

	reply := f.send(t, "Tell me about cats")
	assert.Equal(t, "resp_new", reply.ResponseID)

	require.Len(t, f.responses.requests, 1)
	assert.Equal(t, "resp_1", f.responses.requests[0].PreviousResponseID)
	assert.Equal(t, "Tell me about cats", f.responses.requests[0].Input)

	messages := f.messages(t)
	assert.Equal(t, "resp_new", messages[len(messages)-1].ID)
}

func TestSendPreviousResponseFirstTurn(t *testing.T) {
	f := newFixture(t, chat.Options{HistoryMode: chat.HistoryModePreviousResponse})
	f.responses.CreateResponseFunc = func(context.Context, llm.ResponseRequest) (*llm.Completion, error) {
		return &llm.Completion{ID: "resp_1", Content: "Hello!"}, nil
	}

	f.send(t, "hello")
	require.Len(t, f.responses.requests, 1)
	assert.Empty(t, f.responses.requests[0].PreviousResponseID)
}

func ultraBoost() catalog.Product {
	return catalog.Product{ID: "1", Name: "UltraBoost", Category: "Shoes", Price: decimal.RequireFromString("180"), Stock: 5}
}

func TestSendCatalogOutOfScope(t *testing.T) {
	f := newFixture(t, chat.Options{AssistantMode: chat.AssistantModeCatalog})

	reply := f.send(t, "Tell me about dinosaurs")
	assert.Equal(t, chat.OutcomeOutOfScope, reply.Outcome)
	assert.Equal(t, f.localizer.Message(locale.KeyOutOfScope, f.localizer.Fallback()), reply.Message)
	assert.Equal(t, 0, f.source.calls)

	for _, req := range f.chatModel.requests {
		assert.NotEqual(t, llm.RoleSystem, req.Messages[0].Role)
	}
	messages := f.messages(t)
	assert.Equal(t, reply.Message, messages[len(messages)-1].Text)
}

func TestSendCatalogLimitedStock(t *testing.T) {
	f := newFixture(t, chat.Options{AssistantMode: chat.AssistantModeCatalog, CatalogPromptMaxChars: 12000, CatalogReplyMaxWords: 120})
	f.source.FetchProductsFunc = func(context.Context) ([]catalog.Product, error) {
		return []catalog.Product{ultraBoost()}, nil
	}
	f.chatModel.CreateCompletionFunc = func(_ context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
		return &llm.Completion{ID: "chatcmpl-9", Content: "The UltraBoost is a great running shoe for 180.00."}, nil
	}

	reply := f.send(t, "I need running shoes")
	assert.Equal(t, chat.OutcomeAnswered, reply.Outcome)
	assert.Contains(t, reply.Message, "UltraBoost")
	assert.Contains(t, strings.ToLower(reply.Message), "limited stock")

	req := f.chatModel.requests[0]
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "LIMITED STOCK: only 5 left")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "I need running shoes"}, req.Messages[len(req.Messages)-1])
}

func TestSendCatalogEmpty(t *testing.T) {
	f := newFixture(t, chat.Options{AssistantMode: chat.AssistantModeCatalog, TitleThresholds: title.Thresholds{99}})

	reply := f.send(t, "search for shoes")
	assert.Equal(t, "Sorry, there are no products available right now.", reply.Message)
	assert.Equal(t, chat.OutcomeNoProducts, reply.Outcome)
	assert.Empty(t, f.chatModel.requests)
}

func TestSendCatalogUnavailable(t *testing.T) {
	f := newFixture(t, chat.Options{AssistantMode: chat.AssistantModeCatalog, TitleThresholds: title.Thresholds{99}})
	f.source.FetchProductsFunc = func(context.Context) ([]catalog.Product, error) {
		return nil, errors.New("monday api down")
	}

	reply := f.send(t, "search for shoes")
	assert.Equal(t, chat.OutcomeCatalogUnavailable, reply.Outcome)
	assert.Equal(t, f.localizer.Message(locale.KeyCatalogUnavailable, f.localizer.Fallback()), reply.Message)
	assert.Empty(t, f.chatModel.requests)
}

func TestSendCatalogHistoryIsBounded(t *testing.T) {
	f := newFixture(t, chat.Options{AssistantMode: chat.AssistantModeCatalog, CatalogHistoryTurns: 4, TitleThresholds: title.Thresholds{99}})
	f.source.FetchProductsFunc = func(context.Context) ([]catalog.Product, error) {
		return []catalog.Product{ultraBoost()}, nil
	}

	for i := 0; i < 5; i++ {
		f.send(t, "show me shoes")
	}
	req := f.chatModel.requests[len(f.chatModel.requests)-1]
	// system prompt, four history messages, prompt
	assert.Len(t, req.Messages, 6)
}

func TestSendRejectsForeignConversation(t *testing.T) {
	f := newFixture(t, chat.Options{})
	f.send(t, "hello")

	_, err := f.svc.Send(context.Background(), chat.Request{Prompt: "hi", ConversationID: convID, UserID: "someone-else"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestSendValidatesPrompt(t *testing.T) {
	f := newFixture(t, chat.Options{})

	for _, prompt := range []string{"", "   ", strings.Repeat("a", chat.MaxPromptLength+1)} {
		_, err := f.svc.Send(context.Background(), chat.Request{Prompt: prompt, ConversationID: convID, UserID: owner})
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	}
	_, err := f.conversations.GetConversation(context.Background(), convID, owner)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

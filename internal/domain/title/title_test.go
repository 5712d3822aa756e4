package title_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/infrastructure/memstore"
)

const (
	convID = "7a0d3c43-5a2c-4c8e-9d07-1c6f1f6f6e01"
	owner  = "user-1"
)

type mockChatModel struct {
	CreateCompletionFunc func(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error)
	requests             []llm.CompletionRequest
}

func (m *mockChatModel) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	m.requests = append(m.requests, req)
	return m.CreateCompletionFunc(ctx, req)
}

func seed(t *testing.T, svc *conversation.ConversationService, texts ...string) {
	t.Helper()
	now := time.Now()
	for i, text := range texts {
		msg := conversation.NewUserMessage(text, now)
		if i%2 == 1 {
			msg = conversation.NewBotMessage(text, "", now)
		}
		_, err := svc.AppendMessage(context.Background(), convID, owner, msg)
		require.NoError(t, err)
	}
}

func TestThresholds(t *testing.T) {
	thresholds := title.Thresholds{2, 10}
	for count := 0; count <= 12; count++ {
		assert.Equal(t, count == 2 || count == 10, thresholds.Reached(count), "count %d", count)
	}
}

func TestGenerateStoresCleanTitle(t *testing.T) {
	svc := conversation.NewConversationService(memstore.NewConversationStore())
	seed(t, svc, "Tell me about dinosaurs", "Dinosaurs lived millions of years ago.")

	model := &mockChatModel{CreateCompletionFunc: func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return &llm.Completion{ID: "resp_1", Content: "\"Dinosaur Facts For Curious Kids Today\""}, nil
	}}
	generator := title.NewGenerator(model, svc, "gpt-4o-mini", zerolog.Nop())

	got, err := generator.Generate(context.Background(), convID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Dinosaur Facts For Curious Kids", got)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.Equal(t, float32(0.7), req.Temperature)
	assert.Equal(t, 20, req.MaxTokens)
	assert.True(t, strings.HasSuffix(req.Messages[0].Content, "user: Tell me about dinosaurs\nbot: Dinosaurs lived millions of years ago."))

	conv, err := svc.GetConversation(context.Background(), convID, owner)
	require.NoError(t, err)
	assert.Equal(t, got, conv.Title)
}

func TestGenerateFallsBackWhenModelReturnsNothing(t *testing.T) {
	svc := conversation.NewConversationService(memstore.NewConversationStore())
	seed(t, svc, "hi", "hello")

	model := &mockChatModel{CreateCompletionFunc: func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return &llm.Completion{Content: "  \"\"  "}, nil
	}}
	got, err := title.NewGenerator(model, svc, "gpt-4o-mini", zerolog.Nop()).Generate(context.Background(), convID, owner)
	require.NoError(t, err)
	assert.Equal(t, title.FallbackTitle, got)
}

func TestGenerateLeavesTitleOnModelError(t *testing.T) {
	svc := conversation.NewConversationService(memstore.NewConversationStore())
	seed(t, svc, "hi", "hello")

	model := &mockChatModel{CreateCompletionFunc: func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
		return nil, errors.New("provider down")
	}}
	_, err := title.NewGenerator(model, svc, "gpt-4o-mini", zerolog.Nop()).Generate(context.Background(), convID, owner)
	require.Error(t, err)

	conv, err := svc.GetConversation(context.Background(), convID, owner)
	require.NoError(t, err)
	assert.Equal(t, "", conv.Title)
}

func TestGenerateUnknownConversation(t *testing.T) {
	svc := conversation.NewConversationService(memstore.NewConversationStore())
	model := &mockChatModel{}
	_, err := title.NewGenerator(model, svc, "gpt-4o-mini", zerolog.Nop()).Generate(context.Background(), convID, owner)
	require.Error(t, err)
	assert.Empty(t, model.requests)
}

func TestTranscriptKeepsOpeningWithinLimit(t *testing.T) {
	now := time.Now()
	messages := []conversation.Message{
		conversation.NewUserMessage("tell me about dinosaurs", now),
		conversation.NewBotMessage("Dinosaurs lived long ago.", "", now),
	}
	assert.Equal(t, "user: tell me about dinosaurs\nbot: Dinosaurs lived long ago.", title.Transcript(messages))

	for range 50 {
		messages = append(messages, conversation.NewUserMessage(strings.Repeat("ü", 100), now))
	}
	transcript := title.Transcript(messages)
	assert.Equal(t, 2000, utf8.RuneCountInString(transcript))
	assert.True(t, strings.HasPrefix(transcript, "user: tell me about dinosaurs\n"))
}

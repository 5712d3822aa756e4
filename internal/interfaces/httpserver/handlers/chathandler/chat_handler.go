package chathandler

import (
	"context"

	"github.com/janhq/chat-assistant/internal/domain/chat"
	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/title"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/requests"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// ChatHandler answers prompts and generates conversation titles on demand.
type ChatHandler struct {
	chatService *chat.ChatService
	titles      *title.Generator
}

func NewChatHandler(chatService *chat.ChatService, titles *title.Generator) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		titles:      titles,
	}
}

// Chat stores the prompt, answers it and returns the stored bot message.
func (h *ChatHandler) Chat(ctx context.Context, userID string, req requests.ChatRequest) (*responses.ChatResponse, error) {
	reply, err := h.chatService.Send(ctx, chat.Request{
		Prompt:         req.Prompt,
		ConversationID: req.ConversationID,
		UserID:         userID,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to process chat")
	}
	return &responses.ChatResponse{Message: reply.Message, ID: reply.ResponseID}, nil
}

// GenerateTitle runs the title generator synchronously.
func (h *ChatHandler) GenerateTitle(ctx context.Context, userID string, req requests.GenerateTitleRequest) (*responses.TitleResponse, error) {
	conversationID := req.TargetID()
	if err := conversation.ValidateConversationID(conversationID); err != nil {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerHandler, "conversationId", "must be a UUID", err, "4c1e9b27-8d3a-4f60-b5e2-7a9d0c3f6e18")
	}

	generated, err := h.titles.Generate(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to generate title")
	}
	return &responses.TitleResponse{Title: generated}, nil
}

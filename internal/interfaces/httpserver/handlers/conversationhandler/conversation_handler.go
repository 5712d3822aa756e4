package conversationhandler

import (
	"context"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/responses"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	conversationService *conversation.ConversationService
}

func NewConversationHandler(conversationService *conversation.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// ListConversations returns the user's conversations, newest first.
func (h *ConversationHandler) ListConversations(ctx context.Context, userID string) ([]responses.ConversationSummaryResponse, error) {
	list, err := h.conversationService.ListConversations(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list conversations")
	}
	return responses.NewConversationListResponse(list), nil
}

func (h *ConversationHandler) GetConversation(ctx context.Context, conversationID, userID string) (*responses.ConversationResponse, error) {
	conv, err := h.conversationService.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get conversation")
	}
	resp := responses.NewConversationResponse(conv)
	return &resp, nil
}

func (h *ConversationHandler) GetMessages(ctx context.Context, conversationID, userID string) ([]responses.MessageResponse, error) {
	messages, err := h.conversationService.GetMessages(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get messages")
	}
	return responses.NewMessageListResponse(messages), nil
}

// UpdateTitle renames a conversation. A body conversationId must agree with the path.
func (h *ConversationHandler) UpdateTitle(ctx context.Context, conversationID, bodyConversationID, userID, title string) (*responses.ConversationResponse, error) {
	if bodyConversationID != "" && bodyConversationID != conversationID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "conversationId does not match the path", nil, "4c8e2a6f-9b1d-4e3a-a7c5-2f6d8b0e4a19")
	}
	conv, err := h.conversationService.UpdateTitle(ctx, conversationID, userID, title)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update conversation")
	}
	resp := responses.NewConversationResponse(conv)
	return &resp, nil
}

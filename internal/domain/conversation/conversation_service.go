package conversation

import (
	"context"
	"strings"

	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

// ConversationService handles business logic for conversations
type ConversationService struct {
	repo ConversationRepository
}

func NewConversationService(repo ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

// AppendMessage adds msg to the conversation owned by userID, creating the conversation on first use.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID, userID string, msg Message) (*Conversation, error) {
	if err := ValidateConversationID(conversationID); err != nil {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "conversationId", "must be a UUID", err, "a8f15625-7980-40df-96e9-6668ba88d360")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "userId", "is required", nil, "daa41db6-a1bb-4b46-b2c4-8c602a1e3a94")
	}
	if err := ValidateMessage(msg); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message", err, "1001d503-eddc-4c67-b9e6-3ea8035302d1")
	}

	conv, err := s.repo.AppendMessage(ctx, conversationID, userID, msg)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append message")
	}
	return conv, nil
}

// GetConversation loads a conversation. When userID is set, a conversation owned by someone
// else is reported as not found.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID, userID string) (*Conversation, error) {
	if err := ValidateConversationID(conversationID); err != nil {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "conversationId", "must be a UUID", err, "d5db4b5b-f4ed-40ca-8150-8cf3b84f9995")
	}

	conv, err := s.repo.FindByConversationID(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation")
	}
	if conv == nil || (userID != "" && !conv.OwnedBy(userID)) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "Conversation not found", nil, "fab3a1da-206e-4d2c-99b7-dcaebb6f50cf")
	}
	return conv, nil
}

// GetMessages returns the ordered message list of a conversation.
func (s *ConversationService) GetMessages(ctx context.Context, conversationID, userID string) ([]Message, error) {
	conv, err := s.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conv.Messages == nil {
		return []Message{}, nil
	}
	return conv.Messages, nil
}

// ListConversations returns the user's conversations, most recently updated first.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "userId", "is required", nil, "9faf9f4b-ed09-4a62-b6d4-1abf470c8b74")
	}
	summaries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

// UpdateTitle renames a conversation. userID, when set, must own it.
func (s *ConversationService) UpdateTitle(ctx context.Context, conversationID, userID, title string) (*Conversation, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err, "489d3478-7968-4bd6-b2f4-db112f21a925")
	}
	if userID != "" {
		if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
			return nil, err
		}
	} else if err := ValidateConversationID(conversationID); err != nil {
		return nil, platformerrors.NewFieldError(ctx, platformerrors.LayerDomain, "conversationId", "must be a UUID", err, "afa70e3e-7760-4a5f-aa42-7e62f9bc0847")
	}

	conv, err := s.repo.UpdateTitle(ctx, conversationID, strings.TrimSpace(title))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update title")
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "Conversation not found", nil, "e3bae5eb-4d90-4121-b5c9-10b36a95410f")
	}
	return conv, nil
}

// EachConversation walks every stored conversation.
func (s *ConversationService) EachConversation(ctx context.Context, fn func(*Conversation) error) error {
	if err := s.repo.Each(ctx, fn); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to iterate conversations")
	}
	return nil
}

package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ conversation.ConversationRepository = (*ConversationStore)(nil)

// ConversationStore keeps conversations in process memory. It backs STORE_DRIVER=memory.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation.Conversation
	now           func() time.Time
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*conversation.Conversation),
		now:           time.Now,
	}
}

// WithClock replaces the clock used for lastUpdate.
func (s *ConversationStore) WithClock(now func() time.Time) *ConversationStore {
	s.now = now
	return s
}

func (s *ConversationStore) AppendMessage(ctx context.Context, conversationID, userID string, msg conversation.Message) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		conv = &conversation.Conversation{
			ConversationID: conversationID,
			Title:          conversation.DefaultTitle,
			UserID:         userID,
			Messages:       []conversation.Message{},
		}
		s.conversations[conversationID] = conv
	}
	if conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeForbidden, "conversation belongs to another user", nil, "3f7f1f7b-3f0c-4c0e-9d0a-8a4e0b9d5c11")
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastUpdate = s.now().UTC()
	return clone(conv), nil
}

func (s *ConversationStore) FindByConversationID(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, nil
	}
	return clone(conv), nil
}

func (s *ConversationStore) ListByUser(ctx context.Context, userID string) ([]conversation.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]conversation.Summary, 0)
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			summaries = append(summaries, conv.Summary())
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastUpdate.After(summaries[j].LastUpdate)
	})
	return summaries, nil
}

func (s *ConversationStore) UpdateTitle(ctx context.Context, conversationID, title string) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, nil
	}
	conv.Title = title
	conv.LastUpdate = s.now().UTC()
	return clone(conv), nil
}

func (s *ConversationStore) Each(ctx context.Context, fn func(*conversation.Conversation) error) error {
	s.mu.RLock()
	snapshot := make([]*conversation.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		snapshot = append(snapshot, clone(conv))
	}
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].ConversationID < snapshot[j].ConversationID
	})
	for _, conv := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(conv); err != nil {
			return err
		}
	}
	return nil
}

func clone(conv *conversation.Conversation) *conversation.Conversation {
	copied := *conv
	copied.Messages = slices.Clone(conv.Messages)
	if copied.Messages == nil {
		copied.Messages = []conversation.Message{}
	}
	return &copied
}

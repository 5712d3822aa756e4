package conversation

import (
	"context"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderBot
}

// Message is one entry of a conversation. ID is only set on bot messages and holds the
// provider response id used for previous-response linkage.
type Message struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id,omitempty"`
}

func NewUserMessage(text string, now time.Time) Message {
	return Message{Sender: SenderUser, Text: text, Timestamp: now.UTC()}
}

func NewBotMessage(text, responseID string, now time.Time) Message {
	return Message{Sender: SenderBot, Text: text, Timestamp: now.UTC(), ID: responseID}
}

// DefaultTitle labels a conversation until the first generated or user-set title.
const DefaultTitle = "New Chat"

type Conversation struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	UserID         string    `json:"userId"`
	Messages       []Message `json:"messages"`
	LastUpdate     time.Time `json:"lastUpdate"`
}

// MessageCount is the number of stored messages, user and bot alike.
func (c *Conversation) MessageCount() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

func (c *Conversation) OwnedBy(userID string) bool {
	return c != nil && c.UserID == userID
}

// Summary is the sidebar projection of a conversation.
type Summary struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	UserID         string    `json:"userId"`
	LastUpdate     time.Time `json:"lastUpdate"`
}

func (c *Conversation) Summary() Summary {
	return Summary{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		UserID:         c.UserID,
		LastUpdate:     c.LastUpdate,
	}
}

// ConversationRepository persists conversations. Find methods return (nil, nil) when the
// conversation does not exist.
type ConversationRepository interface {
	// AppendMessage pushes msg to the end of the conversation, creating it for userID when
	// absent, and refreshes lastUpdate. It fails with FORBIDDEN when the conversation exists
	// under another owner.
	AppendMessage(ctx context.Context, conversationID, userID string, msg Message) (*Conversation, error)
	FindByConversationID(ctx context.Context, conversationID string) (*Conversation, error)
	// ListByUser returns the user's conversations ordered by lastUpdate, newest first.
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	UpdateTitle(ctx context.Context, conversationID, title string) (*Conversation, error)
	// Each visits every stored conversation; iteration stops at the first error returned by fn.
	Each(ctx context.Context, fn func(*Conversation) error) error
}

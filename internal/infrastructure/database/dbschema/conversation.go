package dbschema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/utils/functional"
)

// Message is the JSON element stored in conversations.messages.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id,omitempty"`
}

type Conversation struct {
	ID             uint                         `gorm:"primaryKey"`
	ConversationID string                       `gorm:"type:varchar(128);uniqueIndex;not null"`
	UserID         string                       `gorm:"type:varchar(128);index;not null"`
	Title          string                       `gorm:"type:text;not null;default:'New Chat'"`
	Messages       datatypes.JSONSlice[Message] `gorm:"type:jsonb;not null"`
	LastUpdate     time.Time                    `gorm:"not null"`
}

func NewSchemaMessage(m conversation.Message) Message {
	return Message{Sender: string(m.Sender), Text: m.Text, Timestamp: m.Timestamp.UTC(), ID: m.ID}
}

func (c *Conversation) EtoD() *conversation.Conversation {
	messages := functional.Map([]Message(c.Messages), func(m Message) conversation.Message {
		return conversation.Message{Sender: conversation.Sender(m.Sender), Text: m.Text, Timestamp: m.Timestamp.UTC(), ID: m.ID}
	})
	if messages == nil {
		messages = []conversation.Message{}
	}
	return &conversation.Conversation{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		UserID:         c.UserID,
		Messages:       messages,
		LastUpdate:     c.LastUpdate.UTC(),
	}
}

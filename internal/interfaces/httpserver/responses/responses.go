package responses

import (
	"time"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/utils/functional"
)

type ChatResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type TitleResponse struct {
	Title string `json:"title"`
}

type MessageResponse struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id,omitempty"`
}

type ConversationSummaryResponse struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	UserID         string    `json:"userId"`
	LastUpdate     time.Time `json:"lastUpdate"`
}

type ConversationResponse struct {
	ConversationID string            `json:"conversationId"`
	Title          string            `json:"title"`
	UserID         string            `json:"userId"`
	Messages       []MessageResponse `json:"messages"`
	LastUpdate     time.Time         `json:"lastUpdate"`
}

type RegisterResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Background string `json:"background,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

type UserResponse struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Background string `json:"background,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

func NewMessageResponse(m conversation.Message) MessageResponse {
	return MessageResponse{Sender: string(m.Sender), Text: m.Text, Timestamp: m.Timestamp, ID: m.ID}
}

func NewMessageListResponse(messages []conversation.Message) []MessageResponse {
	list := functional.Map(messages, NewMessageResponse)
	if list == nil {
		return []MessageResponse{}
	}
	return list
}

func NewConversationResponse(c *conversation.Conversation) ConversationResponse {
	return ConversationResponse{
		ConversationID: c.ConversationID,
		Title:          c.Title,
		UserID:         c.UserID,
		Messages:       NewMessageListResponse(c.Messages),
		LastUpdate:     c.LastUpdate,
	}
}

func NewConversationListResponse(list []conversation.Summary) []ConversationSummaryResponse {
	out := make([]ConversationSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ConversationSummaryResponse{
			ConversationID: s.ConversationID,
			Title:          s.Title,
			UserID:         s.UserID,
			LastUpdate:     s.LastUpdate,
		})
	}
	return out
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{UserID: u.ID, Name: u.Name, Background: u.Background, Gender: string(u.Gender)}
}

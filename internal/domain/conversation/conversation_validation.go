package conversation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 32000
)

// ValidateConversationID accepts canonical UUID strings only.
func ValidateConversationID(conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("conversationId is required")
	}
	if _, err := uuid.Parse(conversationID); err != nil {
		return fmt.Errorf("conversationId must be a uuid: %w", err)
	}
	return nil
}

func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

func ValidateMessage(msg Message) error {
	if !msg.Sender.IsValid() {
		return fmt.Errorf("invalid sender %q", msg.Sender)
	}
	if utf8.RuneCountInString(msg.Text) > MaxMessageLength {
		return fmt.Errorf("message text must be at most %d characters", MaxMessageLength)
	}
	if msg.Timestamp.IsZero() {
		return errors.New("message timestamp is required")
	}
	return nil
}

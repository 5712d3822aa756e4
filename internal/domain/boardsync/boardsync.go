package boardsync

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/janhq/chat-assistant/internal/domain/conversation"
	"github.com/janhq/chat-assistant/internal/domain/title"
)

const (
	DateLayout = "2006-01-02"
	// maxTranscriptRunes keeps the transcript within the board's long text limit.
	maxTranscriptRunes = 2000
)

// Item is the part of a board item the sync compares against.
type Item struct {
	ID             string
	ConversationID string
	Date           string
}

// ItemValues are the column values written for one conversation.
type ItemValues struct {
	Name           string
	ConversationID string
	UserID         string
	Date           string
	Transcript     string
}

// Board is the conversation board of the external project-management tool.
type Board interface {
	// Items lists every item that carries a conversation id.
	Items(ctx context.Context) ([]Item, error)
	// FindItem returns (nil, nil) when no item has the conversation id.
	FindItem(ctx context.Context, conversationID string) (*Item, error)
	CreateItem(ctx context.Context, values ItemValues) (string, error)
	UpdateItem(ctx context.Context, itemID string, values ItemValues) error
}

type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (s Stats) Total() int {
	return s.Created + s.Updated + s.Skipped + s.Failed
}

// ValuesFor renders a conversation as board column values.
func ValuesFor(conv *conversation.Conversation) ItemValues {
	name := strings.TrimSpace(conv.Title)
	if name == "" {
		name = title.FallbackTitle
	}
	return ItemValues{
		Name:           name,
		ConversationID: conv.ConversationID,
		UserID:         conv.UserID,
		Date:           FormatDate(conv.LastUpdate),
		Transcript:     Transcript(conv.Messages),
	}
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Transcript renders messages as numbered "[sender] text" lines. When the result exceeds
// the board limit the oldest lines are dropped.
func Transcript(messages []conversation.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%d. [%s] %s", i+1, m.Sender, strings.Join(strings.Fields(m.Text), " "))
	}

	size := 0
	start := len(lines)
	for start > 0 {
		next := utf8.RuneCountInString(lines[start-1]) + 1
		if size+next > maxTranscriptRunes && start < len(lines) {
			break
		}
		size += next
		start--
	}
	transcript := strings.Join(lines[start:], "\n")
	if utf8.RuneCountInString(transcript) > maxTranscriptRunes {
		runes := []rune(transcript)
		transcript = string(runes[:maxTranscriptRunes])
	}
	return transcript
}

package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a multi-turn chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ResponseRequest is a single-input Responses API call. PreviousResponseID lets the
// provider continue its own stored context.
type ResponseRequest struct {
	Model              string
	Input              string
	Instructions       string
	PreviousResponseID string
	Temperature        float32
	MaxOutputTokens    int
}

// Completion is the text the provider produced. ID is the provider response id.
type Completion struct {
	ID      string
	Model   string
	Content string
}

type ChatModel interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) (*Completion, error)
}

type ResponseModel interface {
	CreateResponse(ctx context.Context, req ResponseRequest) (*Completion, error)
}

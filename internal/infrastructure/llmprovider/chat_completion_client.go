package llmprovider

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/utils/functional"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ llm.ChatModel = (*Client)(nil)

// CreateCompletion sends a non-streaming chat completion request.
func (c *Client) CreateCompletion(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error) {
	request := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: functional.Map(req.Messages, func(m llm.Message) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
		}),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	started := time.Now()
	var respBody openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/chat/completions"))
	metrics.RecordLLMDuration(req.Model, "chat_completion", time.Since(started).Seconds())
	if err != nil {
		metrics.RecordProviderError(providerName, "chat_completion")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "chat completion request failed", err, "5d0a7e61-2b6f-4c55-9d7e-0f9c3b1a6e48")
	}
	if resp.IsError() {
		metrics.RecordProviderError(providerName, "chat_completion")
		return nil, c.errorFromResponse(ctx, resp, "chat completion request failed")
	}
	if len(respBody.Choices) == 0 {
		metrics.RecordProviderError(providerName, "chat_completion")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "chat completion returned no choices", nil, "e2a4c7b9-1d3f-4e6a-8b0c-7f5d2e9a1c63")
	}

	return &llm.Completion{
		ID:      respBody.ID,
		Model:   respBody.Model,
		Content: strings.TrimSpace(respBody.Choices[0].Message.Content),
	}, nil
}

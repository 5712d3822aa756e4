package llmprovider

import (
	"context"
	"strings"
	"time"

	"github.com/janhq/chat-assistant/internal/domain/llm"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ llm.ResponseModel = (*Client)(nil)

type responsesRequest struct {
	Model              string   `json:"model"`
	Input              string   `json:"input"`
	Instructions       string   `json:"instructions,omitempty"`
	PreviousResponseID string   `json:"previous_response_id,omitempty"`
	Temperature        *float32 `json:"temperature,omitempty"`
	MaxOutputTokens    *int     `json:"max_output_tokens,omitempty"`
}

type responsesResponse struct {
	ID     string                `json:"id"`
	Model  string                `json:"model"`
	Status string                `json:"status"`
	Output []responsesOutputItem `json:"output"`
}

type responsesOutputItem struct {
	Type    string                   `json:"type"`
	ID      string                   `json:"id,omitempty"`
	Role    string                   `json:"role,omitempty"`
	Content []responsesOutputContent `json:"content"`
}

type responsesOutputContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// outputText concatenates the text parts of every message item.
func (r responsesResponse) outputText() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" || part.Type == "text" {
				b.WriteString(part.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// CreateResponse calls the Responses API, threading PreviousResponseID when set.
func (c *Client) CreateResponse(ctx context.Context, req llm.ResponseRequest) (*llm.Completion, error) {
	request := responsesRequest{
		Model:              req.Model,
		Input:              req.Input,
		Instructions:       req.Instructions,
		PreviousResponseID: req.PreviousResponseID,
	}
	if req.Temperature > 0 {
		temperature := req.Temperature
		request.Temperature = &temperature
	}
	if req.MaxOutputTokens > 0 {
		maxTokens := req.MaxOutputTokens
		request.MaxOutputTokens = &maxTokens
	}

	started := time.Now()
	var respBody responsesResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/responses"))
	metrics.RecordLLMDuration(req.Model, "responses", time.Since(started).Seconds())
	if err != nil {
		metrics.RecordProviderError(providerName, "responses")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "responses request failed", err, "0c9b7e3a-5f1d-4a2b-8e6c-3d4f9a7b1e25")
	}
	if resp.IsError() {
		metrics.RecordProviderError(providerName, "responses")
		return nil, c.errorFromResponse(ctx, resp, "responses request failed")
	}

	return &llm.Completion{ID: respBody.ID, Model: respBody.Model, Content: respBody.outputText()}, nil
}

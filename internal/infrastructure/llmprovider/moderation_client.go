package llmprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/chat-assistant/internal/domain/policy"
	"github.com/janhq/chat-assistant/internal/infrastructure/metrics"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ policy.Moderator = (*ModerationClient)(nil)

// ModerationClient classifies text with the OpenAI moderation endpoint.
type ModerationClient struct {
	client *openai.Client
	model  string
}

// NewModerationClient bounds every call by timeout; zero leaves the client unbounded.
func NewModerationClient(apiKey, baseURL, model string, timeout time.Duration) *ModerationClient {
	config := openai.DefaultConfig(apiKey)
	if base := normalizeBaseURL(baseURL); base != "" {
		config.BaseURL = base
	}
	if timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &ModerationClient{client: openai.NewClientWithConfig(config), model: model}
}

func (m *ModerationClient) Moderate(ctx context.Context, text string) (*policy.ModerationResult, error) {
	started := time.Now()
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{Input: text, Model: m.model})
	metrics.RecordLLMDuration(m.model, "moderation", time.Since(started).Seconds())
	if err != nil {
		metrics.RecordProviderError(providerName, "moderation")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "moderation request failed", err, "7a1e4c9d-3b2f-4d6e-9c8a-1f0b5e7d2a34")
	}

	result := &policy.ModerationResult{}
	for _, r := range resp.Results {
		if !r.Flagged {
			continue
		}
		result.Flagged = true
		result.Categories = append(result.Categories, flaggedCategories(r.Categories)...)
	}
	sort.Strings(result.Categories)
	return result, nil
}

// flaggedCategories returns the json names of the categories set to true.
func flaggedCategories(categories openai.ResultCategories) []string {
	raw, err := json.Marshal(categories)
	if err != nil {
		return nil
	}
	var flags map[string]bool
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil
	}
	var names []string
	for name, set := range flags {
		if set {
			names = append(names, name)
		}
	}
	return names
}

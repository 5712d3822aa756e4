package llmprovider

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const providerName = "openai"

// Client calls an OpenAI compatible API over resty.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

func NewClient(client *resty.Client, baseURL, apiKey string) *Client {
	return &Client{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
	}
}

func (c *Client) prepareRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	return req
}

func (c *Client) endpoint(path string) string {
	if c.baseURL == "" {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	body := strings.TrimSpace(resp.String())
	if body == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s: status %d", message, resp.StatusCode()), nil, "3f0d1d5e-6a43-4b6c-9a38-0d2d9a4f1c17")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s: status %d: %s", message, resp.StatusCode(), body), nil, "b64f8b0c-8f6e-4f2a-a2d1-5c7f3e9b8a21")
}

func normalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

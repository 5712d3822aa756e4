package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resty.dev/v3"

	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

const (
	apiVersion = "2024-10"
	pageLimit  = 100
)

// Columns maps board fields to the column ids of a specific board.
type Columns struct {
	ConversationID string
	UserID         string
	Date           string
	Messages       string
}

type CatalogColumns struct {
	Price       string
	Stock       string
	Discount    string
	Category    string
	Description string
	URL         string
}

type Config struct {
	APIURL              string
	Token               string
	ConversationBoardID string
	CatalogBoardID      string
	Columns             Columns
	CatalogColumns      CatalogColumns
}

// Client talks to the Monday.com GraphQL API.
type Client struct {
	client *resty.Client
	cfg    Config
}

func NewClient(client *resty.Client, cfg Config) *Client {
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	return &Client{client: client, cfg: cfg}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data         json.RawMessage `json:"data"`
	Errors       []graphQLError  `json:"errors"`
	ErrorMessage string          `json:"error_message"`
	ErrorCode    string          `json:"error_code"`
}

type columnValue struct {
	ID    string  `json:"id"`
	Text  *string `json:"text"`
	Value *string `json:"value"`
}

type item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []columnValue `json:"column_values"`
}

func (i item) text(columnID string) string {
	for _, cv := range i.ColumnValues {
		if cv.ID == columnID && cv.Text != nil {
			return strings.TrimSpace(*cv.Text)
		}
	}
	return ""
}

func (i item) value(columnID string) string {
	for _, cv := range i.ColumnValues {
		if cv.ID == columnID && cv.Value != nil {
			return *cv.Value
		}
	}
	return ""
}

type itemsPage struct {
	Cursor *string `json:"cursor"`
	Items  []item  `json:"items"`
}

// do runs a GraphQL operation and decodes its data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	var body graphQLResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", c.cfg.Token).
		SetHeader("API-Version", apiVersion).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		SetResult(&body).
		Post(c.cfg.APIURL)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "monday request failed", err, "9d4c2b7e-1f6a-4e3d-8b5c-0a7f2e9d6c41")
	}
	if resp.IsError() {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("monday request failed: status %d: %s", resp.StatusCode(), resp.String()), nil, "2e7a9f1c-6b3d-4c8e-a5f0-7d1b4e9c3a62")
	}
	if len(body.Errors) > 0 || body.ErrorMessage != "" {
		message := body.ErrorMessage
		if len(body.Errors) > 0 {
			message = body.Errors[0].Message
		}
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "monday api error: "+message, nil, "c1f8e3a6-4d7b-4a9e-b2c5-8e0d6f3a1b74")
	}
	if out == nil || len(body.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(body.Data, out); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "decode monday response", err, "6b2d9e4f-8a1c-4f7e-9d3b-5c0a7e2f8b16")
	}
	return nil
}

const itemsPageQuery = `query ($boardId: [ID!], $cursor: String, $limit: Int!, $columns: [String!]) {
  boards(ids: $boardId) {
    items_page(limit: $limit, cursor: $cursor) {
      cursor
      items { id name column_values(ids: $columns) { id text value } }
    }
  }
}`

// allItems pages through every item of a board, loading only the given columns.
func (c *Client) allItems(ctx context.Context, boardID string, columns []string) ([]item, error) {
	var items []item
	var cursor *string
	for {
		var data struct {
			Boards []struct {
				ItemsPage itemsPage `json:"items_page"`
			} `json:"boards"`
		}
		err := c.do(ctx, itemsPageQuery, map[string]any{
			"boardId": []string{boardID},
			"cursor":  cursor,
			"limit":   pageLimit,
			"columns": columns,
		}, &data)
		if err != nil {
			return nil, err
		}
		if len(data.Boards) == 0 {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "monday board not found: "+boardID, nil, "f3a7c1e9-2b5d-4e8a-9c6f-1d4b7e0a3c85")
		}
		page := data.Boards[0].ItemsPage
		items = append(items, page.Items...)
		if page.Cursor == nil || *page.Cursor == "" {
			return items, nil
		}
		cursor = page.Cursor
	}
}

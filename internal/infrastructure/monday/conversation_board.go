package monday

import (
	"context"
	"encoding/json"

	"github.com/janhq/chat-assistant/internal/domain/boardsync"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ boardsync.Board = (*Client)(nil)

const findItemQuery = `query ($boardId: ID!, $columnId: String!, $value: String!, $columns: [String!]) {
  items_page_by_column_values(board_id: $boardId, limit: 1, columns: [{column_id: $columnId, column_values: [$value]}]) {
    items { id name column_values(ids: $columns) { id text value } }
  }
}`

const createItemMutation = `mutation ($boardId: ID!, $name: String!, $values: JSON!) {
  create_item(board_id: $boardId, item_name: $name, column_values: $values) { id }
}`

const updateItemMutation = `mutation ($boardId: ID!, $itemId: ID!, $values: JSON!) {
  change_multiple_column_values(board_id: $boardId, item_id: $itemId, column_values: $values) { id }
}`

func (c *Client) conversationColumns() []string {
	return []string{c.cfg.Columns.ConversationID, c.cfg.Columns.Date}
}

func (c *Client) toBoardItem(i item) boardsync.Item {
	return boardsync.Item{
		ID:             i.ID,
		ConversationID: i.text(c.cfg.Columns.ConversationID),
		Date:           i.text(c.cfg.Columns.Date),
	}
}

func (c *Client) Items(ctx context.Context) ([]boardsync.Item, error) {
	items, err := c.allItems(ctx, c.cfg.ConversationBoardID, c.conversationColumns())
	if err != nil {
		return nil, err
	}
	out := make([]boardsync.Item, 0, len(items))
	for _, i := range items {
		out = append(out, c.toBoardItem(i))
	}
	return out, nil
}

func (c *Client) FindItem(ctx context.Context, conversationID string) (*boardsync.Item, error) {
	var data struct {
		Page itemsPage `json:"items_page_by_column_values"`
	}
	err := c.do(ctx, findItemQuery, map[string]any{
		"boardId":  c.cfg.ConversationBoardID,
		"columnId": c.cfg.Columns.ConversationID,
		"value":    conversationID,
		"columns":  c.conversationColumns(),
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.Page.Items) == 0 {
		return nil, nil
	}
	found := c.toBoardItem(data.Page.Items[0])
	return &found, nil
}

func (c *Client) CreateItem(ctx context.Context, values boardsync.ItemValues) (string, error) {
	columnValues, err := c.columnValues(ctx, values, false)
	if err != nil {
		return "", err
	}
	var data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	err = c.do(ctx, createItemMutation, map[string]any{
		"boardId": c.cfg.ConversationBoardID,
		"name":    values.Name,
		"values":  columnValues,
	}, &data)
	if err != nil {
		return "", err
	}
	return data.CreateItem.ID, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID string, values boardsync.ItemValues) error {
	columnValues, err := c.columnValues(ctx, values, true)
	if err != nil {
		return err
	}
	return c.do(ctx, updateItemMutation, map[string]any{
		"boardId": c.cfg.ConversationBoardID,
		"itemId":  itemID,
		"values":  columnValues,
	}, nil)
}

// columnValues encodes values as the JSON string the column_values argument expects.
func (c *Client) columnValues(ctx context.Context, values boardsync.ItemValues, withName bool) (string, error) {
	cols := map[string]any{
		c.cfg.Columns.ConversationID: values.ConversationID,
		c.cfg.Columns.UserID:         values.UserID,
		c.cfg.Columns.Date:           map[string]string{"date": values.Date},
		c.cfg.Columns.Messages:       map[string]string{"text": values.Transcript},
	}
	if withName {
		cols["name"] = values.Name
	}
	raw, err := json.Marshal(cols)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "encode monday column values", err, "a9e2c6f1-7d4b-4b3e-8f1a-2c5e9d7b0f38")
	}
	return string(raw), nil
}

package monday_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/chat-assistant/internal/domain/boardsync"
	"github.com/janhq/chat-assistant/internal/infrastructure/monday"
	"github.com/janhq/chat-assistant/internal/utils/httpclients"
)

type graphQLCall struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newClient(t *testing.T, handler func(call graphQLCall) string) (*monday.Client, *[]graphQLCall) {
	t.Helper()
	var calls []graphQLCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		var call graphQLCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		calls = append(calls, call)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(call)))
	}))
	t.Cleanup(server.Close)

	client := monday.NewClient(httpclients.NewClient("monday", 5*time.Second), monday.Config{
		APIURL:              server.URL,
		Token:               "token-1",
		ConversationBoardID: "100",
		CatalogBoardID:      "200",
		Columns: monday.Columns{
			ConversationID: "conv_col",
			UserID:         "user_col",
			Date:           "date_col",
			Messages:       "messages_col",
		},
		CatalogColumns: monday.CatalogColumns{
			Price:    "price_col",
			Stock:    "stock_col",
			Discount: "discount_col",
			Category: "category_col",
			URL:      "url_col",
		},
	})
	return client, &calls
}

func TestItemsPaginates(t *testing.T) {
	client, calls := newClient(t, func(call graphQLCall) string {
		if call.Variables["cursor"] == nil {
			return `{"data":{"boards":[{"items_page":{"cursor":"next","items":[
				{"id":"1","name":"Chat","column_values":[{"id":"conv_col","text":"conv-a"},{"id":"date_col","text":"2024-03-01"}]}
			]}}]}}`
		}
		return `{"data":{"boards":[{"items_page":{"cursor":null,"items":[
			{"id":"2","name":"Chat","column_values":[{"id":"conv_col","text":"conv-b"},{"id":"date_col","text":null}]}
		]}}]}}`
	})

	items, err := client.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []boardsync.Item{
		{ID: "1", ConversationID: "conv-a", Date: "2024-03-01"},
		{ID: "2", ConversationID: "conv-b"},
	}, items)
	assert.Len(t, *calls, 2)
}

func TestFindItem(t *testing.T) {
	client, calls := newClient(t, func(call graphQLCall) string {
		if call.Variables["value"] == "conv-a" {
			return `{"data":{"items_page_by_column_values":{"items":[{"id":"7","name":"Chat","column_values":[{"id":"conv_col","text":"conv-a"},{"id":"date_col","text":"2024-03-01"}]}]}}}`
		}
		return `{"data":{"items_page_by_column_values":{"items":[]}}}`
	})

	item, err := client.FindItem(context.Background(), "conv-a")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "7", item.ID)

	item, err = client.FindItem(context.Background(), "conv-x")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, "conv_col", (*calls)[0].Variables["columnId"])
}

func TestCreateAndUpdateItem(t *testing.T) {
	client, calls := newClient(t, func(call graphQLCall) string {
		if strings.Contains(call.Query, "create_item") {
			return `{"data":{"create_item":{"id":"55"}}}`
		}
		return `{"data":{"change_multiple_column_values":{"id":"55"}}}`
	})
	values := boardsync.ItemValues{
		Name:           "Dinosaurs",
		ConversationID: "conv-a",
		UserID:         "user-1",
		Date:           "2024-03-01",
		Transcript:     "1. [user] hi",
	}

	id, err := client.CreateItem(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, "55", id)
	require.NoError(t, client.UpdateItem(context.Background(), id, values))

	require.Len(t, *calls, 2)
	create := (*calls)[0]
	assert.Equal(t, "Dinosaurs", create.Variables["name"])
	var columns map[string]any
	require.NoError(t, json.Unmarshal([]byte(create.Variables["values"].(string)), &columns))
	assert.Equal(t, "conv-a", columns["conv_col"])
	assert.Equal(t, map[string]any{"date": "2024-03-01"}, columns["date_col"])
	assert.Equal(t, map[string]any{"text": "1. [user] hi"}, columns["messages_col"])
	assert.NotContains(t, columns, "name")

	update := (*calls)[1]
	assert.Equal(t, "55", update.Variables["itemId"])
	require.NoError(t, json.Unmarshal([]byte(update.Variables["values"].(string)), &columns))
	assert.Equal(t, "Dinosaurs", columns["name"])
}

func TestGraphQLErrors(t *testing.T) {
	client, _ := newClient(t, func(graphQLCall) string {
		return `{"errors":[{"message":"Complexity budget exhausted"}]}`
	})

	_, err := client.FindItem(context.Background(), "conv-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Complexity budget exhausted")
}

func TestFetchProducts(t *testing.T) {
	client, _ := newClient(t, func(graphQLCall) string {
		return `{"data":{"boards":[{"items_page":{"cursor":null,"items":[
			{"id":"1","name":"UltraBoost","column_values":[
				{"id":"price_col","text":"180"},{"id":"stock_col","text":"5"},{"id":"discount_col","text":"10%"},
				{"id":"category_col","text":"Shoes"},
				{"id":"url_col","text":"Shop - https://shop.example/ub","value":"{\"url\":\"https://shop.example/ub\",\"text\":\"Shop\"}"}
			]},
			{"id":"2","name":"Broken","column_values":[{"id":"price_col","text":""}]}
		]}}]}}`
	})

	products, err := monday.NewCatalogBoard(client).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "UltraBoost", p.Name)
	assert.Equal(t, "180", p.Price.String())
	assert.Equal(t, "10", p.Discount.String())
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "Shoes", p.Category)
	assert.Equal(t, "https://shop.example/ub", p.URL)
	assert.Equal(t, "162.00", p.FinalPrice().StringFixed(2))
}

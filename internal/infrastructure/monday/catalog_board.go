package monday

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/janhq/chat-assistant/internal/domain/catalog"
	"github.com/janhq/chat-assistant/internal/infrastructure/logger"
)

var _ catalog.Source = (*CatalogBoard)(nil)

// CatalogBoard reads products from the catalog board.
type CatalogBoard struct {
	client *Client
}

func NewCatalogBoard(client *Client) *CatalogBoard {
	return &CatalogBoard{client: client}
}

func (b *CatalogBoard) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	cols := b.client.cfg.CatalogColumns
	items, err := b.client.allItems(ctx, b.client.cfg.CatalogBoardID, []string{
		cols.Price, cols.Stock, cols.Discount, cols.Category, cols.Description, cols.URL,
	})
	if err != nil {
		return nil, err
	}

	log := logger.GetLogger()
	products := make([]catalog.Product, 0, len(items))
	for _, i := range items {
		price, err := parseDecimal(i.text(cols.Price))
		if err != nil || strings.TrimSpace(i.Name) == "" {
			log.Warn().Str("item_id", i.ID).Str("name", i.Name).Msg("skipping catalog item without a valid name or price")
			continue
		}
		discount, _ := parseDecimal(i.text(cols.Discount))
		products = append(products, catalog.Product{
			ID:          i.ID,
			Name:        strings.TrimSpace(i.Name),
			Category:    i.text(cols.Category),
			Description: i.text(cols.Description),
			Price:       price,
			Discount:    discount,
			Stock:       parseStock(i.text(cols.Stock)),
			URL:         linkURL(i.value(cols.URL), i.text(cols.URL)),
		})
	}
	return products, nil
}

// parseDecimal accepts values such as "180", "₪ 99.90" or "15%".
func parseDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return decimal.Zero, strconv.ErrSyntax
	}
	return decimal.NewFromString(cleaned)
}

func parseStock(raw string) int {
	value, err := parseDecimal(raw)
	if err != nil || value.IsNegative() {
		return 0
	}
	return int(value.IntPart())
}

// linkURL extracts the url of a link column, whose text is "label - url".
func linkURL(value, text string) string {
	if value != "" {
		var link struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal([]byte(value), &link); err == nil && link.URL != "" {
			return link.URL
		}
	}
	if idx := strings.LastIndex(text, " - "); idx >= 0 {
		return strings.TrimSpace(text[idx+3:])
	}
	return text
}

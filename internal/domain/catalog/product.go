package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// LimitedStockThreshold is the stock level under which a product is called out as limited.
const LimitedStockThreshold = 10

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	// Discount is a percentage; zero means no discount.
	Discount decimal.Decimal `json:"discount"`
	Stock    int             `json:"stock"`
	URL      string          `json:"url,omitempty"`
}

func (p Product) HasDiscount() bool {
	return p.Discount.IsPositive() && p.Discount.LessThan(hundred)
}

// FinalPrice applies the discount and rounds to cents.
func (p Product) FinalPrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price.Round(2)
	}
	return p.Price.Mul(hundred.Sub(p.Discount)).Div(hundred).Round(2)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

func (p Product) LimitedStock() bool {
	return p.Stock > 0 && p.Stock < LimitedStockThreshold
}

// Source loads the full product list from the catalog backend.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

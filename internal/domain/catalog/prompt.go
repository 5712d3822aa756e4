package catalog

import (
	"fmt"
	"strings"

	"github.com/janhq/chat-assistant/internal/domain/locale"
	"github.com/janhq/chat-assistant/internal/domain/policy"
)

type PromptOptions struct {
	// MaxChars bounds the whole system prompt.
	MaxChars int
	// MaxWords caps the length of the reply the model is asked for.
	MaxWords int
}

const promptInstructions = `You are a friendly shop assistant. Answer only questions about the products listed below.
Rules:
- Reply in the same language the customer writes in.
- Only recommend products from the list. Never invent products, prices or stock levels.
- Write prices with two decimals. When a product has a discount, show the original price and the final price.
- When you mention a product marked LIMITED STOCK, tell the customer how many units are left.
- Do not recommend products marked OUT OF STOCK.
- Keep the answer under %d words.

PRODUCTS:
`

const omittedProducts = "(%d more products not listed)\n"

// BuildSystemPrompt renders the instructions and as many product lines as fit in MaxChars,
// room for the omitted-products note included. The instructions are always written.
func BuildSystemPrompt(products []Product, opts PromptOptions) string {
	if opts.MaxWords <= 0 {
		opts.MaxWords = 120
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(promptInstructions, opts.MaxWords))

	reserve := len(fmt.Sprintf(omittedProducts, len(products)))
	for i, p := range products {
		line := ProductLine(p) + "\n"
		need := len(line)
		if i < len(products)-1 {
			need += reserve
		}
		if opts.MaxChars > 0 && b.Len()+need > opts.MaxChars {
			b.WriteString(fmt.Sprintf(omittedProducts, len(products)-i))
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// ProductLine is the single-line description of p used in the system prompt.
func ProductLine(p Product) string {
	parts := []string{"- " + p.Name}
	if p.Category != "" {
		parts = append(parts, "category: "+p.Category)
	}
	if p.HasDiscount() {
		parts = append(parts, fmt.Sprintf("price: %s, discount: %s%%, final price: %s",
			p.Price.StringFixed(2), p.Discount.String(), p.FinalPrice().StringFixed(2)))
	} else {
		parts = append(parts, "price: "+p.Price.StringFixed(2))
	}
	switch {
	case !p.InStock():
		parts = append(parts, "OUT OF STOCK")
	case p.LimitedStock():
		parts = append(parts, fmt.Sprintf("LIMITED STOCK: only %d left", p.Stock))
	default:
		parts = append(parts, fmt.Sprintf("stock: %d", p.Stock))
	}
	if p.Description != "" {
		parts = append(parts, "description: "+strings.Join(strings.Fields(p.Description), " "))
	}
	if p.URL != "" {
		parts = append(parts, "link: "+p.URL)
	}
	return strings.Join(parts, " | ")
}

// EnsureLimitedStockCallouts appends a localized note for every limited-stock product the
// reply names without stating how many units are left.
func EnsureLimitedStockCallouts(reply string, products []Product, localizer *locale.Localizer, prompt string) string {
	tokens := policy.Tokens(reply)
	if len(tokens) == 0 {
		return reply
	}
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}

	var notes []string
	for _, p := range products {
		if !p.LimitedStock() {
			continue
		}
		if _, mentioned := policy.NewKeywordChecker([]string{p.Name}).Match(reply); !mentioned {
			continue
		}
		if _, stated := present[fmt.Sprint(p.Stock)]; stated {
			continue
		}
		notes = append(notes, fmt.Sprintf(localizer.MessageFor(locale.KeyLimitedStock, prompt), p.Name, p.Stock))
	}
	if len(notes) == 0 {
		return reply
	}
	return strings.TrimRight(reply, " \n") + "\n\n" + strings.Join(notes, "\n")
}

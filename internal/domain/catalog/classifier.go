package catalog

import (
	"github.com/janhq/chat-assistant/internal/domain/policy"
)

// productKeywords uses the policy keyword syntax: "word*" matches by prefix and "*word" by
// suffix, which also covers Hebrew prefixed prepositions and articles.
var productKeywords = []string{
	// English product nouns
	"product*", "item*", "shoe*", "sneaker*", "trainer*", "boot*", "sandal*", "shirt*", "t shirt*",
	"hoodie*", "jacket*", "coat*", "pants", "trousers", "jeans", "short*", "dress*", "skirt*",
	"sock*", "hat", "hats", "cap", "caps", "bag*", "backpack*", "legging*", "sportswear", "clothes",
	"clothing", "apparel", "outfit*", "gear", "equipment", "accessor*", "toy*", "ball*",
	// brands and lines
	"nike", "adidas", "puma", "reebok", "asics", "converse", "vans", "new balance", "ultraboost",
	"air max", "jordan*",
	// intent verbs
	"buy*", "purchas*", "order*", "shop*", "price*", "cost*", "cheap*", "discount*", "sale",
	"sales", "deal*", "stock", "available", "availability", "deliver*", "shipping", "search*",
	"looking for", "recommend*", "size*", "brand*", "catalog*",
	// categories
	"running", "sport*", "fitness", "gym", "training", "hiking", "football", "basketball", "tennis",
	// Hebrew
	"*נעל", "*נעליים", "*מוצר", "*מוצרים", "*פריט", "*מחיר", "*מחירים", "*לקנות", "*קנייה",
	"*הנחה", "*מבצע", "*מבצעים", "*מלאי", "*חולצה", "*חולצות", "*מכנסיים", "*מעיל",
	"*שמלה", "*כובע", "*תיק", "*גרביים", "*ספורט", "*ריצה", "*כושר", "*מידה", "*מידות",
	"*להזמין", "*הזמנה", "*משלוח", "*מותג", "*זול", "*קטלוג",
}

// Classifier decides whether a prompt is about the shop's products.
type Classifier struct {
	keywords *policy.KeywordChecker
}

func NewClassifier() *Classifier {
	return &Classifier{keywords: policy.NewKeywordChecker(productKeywords)}
}

// IsProductRelated matches the prompt against the product vocabulary and against the names
// and categories of known products.
func (c *Classifier) IsProductRelated(prompt string, known []Product) bool {
	if _, ok := c.keywords.Match(prompt); ok {
		return true
	}
	if len(known) == 0 {
		return false
	}
	terms := make([]string, 0, len(known)*2)
	for _, p := range known {
		terms = append(terms, p.Name, p.Category)
	}
	_, ok := policy.NewKeywordChecker(terms).Match(prompt)
	return ok
}

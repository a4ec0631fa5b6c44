// Package parser splits recognized receipt text into structured grocery
// line items.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/normalize"
)

// Item is one recognized grocery line, already normalized and categorized.
type Item struct {
	Name       string               `json:"name"`
	Quantity   string               `json:"quantity"`
	Price      *float64             `json:"price"`
	Category   constants.Category   `json:"category"`
	Confidence constants.Confidence `json:"confidence"`
}

// skipKeywords marks receipt metadata lines that can never be items.
// Matching is case-insensitive substring, so "TOTAL" also covers SUBTOTAL.
var skipKeywords = []string{
	"TOTAL", "CHANGE", "BALANCE", "CREDIT", "DEBIT",
	"VISA", "MASTERCARD", "AMEX", "THANK", "CASHIER", "RECEIPT", "COUPON",
	"SAVINGS", "REFUND", "STORE", "PHONE", "MEMBER", "REWARDS",
	"APPROVED", "INVOICE", "WWW", ".COM",
}

// Short metadata tokens collide with real item names as substrings
// ("CARD" in CARDAMOM, "TEL" in TELERA), so they match whole words only.
var reSkipWords = regexp.MustCompile(`\b(TAX|CASH|CARD|TEL|AUTH)\b`)

// groceryKeywords is the fallback vocabulary: a line with none of these
// terms yields nothing when no structured pattern matched.
var groceryKeywords = []string{
	"MILK", "BREAD", "EGG", "CHEESE", "BUTTER", "YOGURT", "CREAM",
	"APPLE", "BANANA", "ORANGE", "GRAPE", "LETTUCE", "TOMATO", "ONION",
	"POTATO", "CARROT", "PEPPER", "SPINACH", "BROCCOLI", "AVOCADO",
	"CHICKEN", "BEEF", "PORK", "TURKEY", "FISH", "SALMON", "TUNA",
	"RICE", "PASTA", "CEREAL", "OAT", "FLOUR", "SUGAR", "SALT",
	"OIL", "VINEGAR", "JUICE", "COFFEE", "TEA", "WATER", "SODA",
	"CHIP", "COOKIE", "CRACKER", "BEAN", "SOUP", "SAUCE", "FROZEN",
	"PIZZA", "HONEY", "JAM", "NUT",
}

// extraction is the raw capture of one structured pattern before
// normalization.
type extraction struct {
	name     string
	quantity string
	price    *float64
}

// linePattern pairs a matcher with its extractor. Patterns are evaluated
// in slice order, most specific first, and the first match wins.
type linePattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) extraction
}

var (
	rePrice       = regexp.MustCompile(`\d+\.\d{2}`)
	reQtyWithUnit = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(LBS|LB|OZ|CT|GAL|QT|PT|PK|EA|DOZ|KG)\b`)
)

func defaultPatterns() []linePattern {
	return []linePattern{
		{
			// "CHICKEN BREAST 1.8 LB 8.93"
			name: "name+quantity-with-unit+price",
			re:   regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?)\s*(LBS|LB|OZ|CT|GAL|QT|PT|PK|EA|DOZ|KG)\b\s*\$?(\d+\.\d{2})\s*[A-Z]?$`),
			extract: func(m []string) extraction {
				return extraction{name: m[1], quantity: m[2] + " " + strings.ToUpper(m[3]), price: parsePrice(m[4])}
			},
		},
		{
			// "BANANAS 3 @ 0.59 1.77" — the extended price is the item price.
			name: "name+at-unit-price+extended-price",
			re:   regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)\s*@\s*\$?\d+\.\d{2}\s+\$?(\d+\.\d{2})\s*[A-Z]?$`),
			extract: func(m []string) extraction {
				return extraction{name: m[1], quantity: m[2], price: parsePrice(m[3])}
			},
		},
		{
			// "YOGURT CUPS 4 5.00"
			name: "name+count+price",
			re:   regexp.MustCompile(`^(.+?)\s+(\d{1,2})\s+\$?(\d+\.\d{2})\s*[A-Z]?$`),
			extract: func(m []string) extraction {
				return extraction{name: m[1], quantity: m[2], price: parsePrice(m[3])}
			},
		},
		{
			// "PUB DICED TOMATOES 2.99"
			name: "name+price",
			re:   regexp.MustCompile(`^(.+?)\s+\$?(\d+\.\d{2})\s*[A-Z]?$`),
			extract: func(m []string) extraction {
				return extraction{name: m[1], quantity: "1", price: parsePrice(m[2])}
			},
		},
	}
}

// Parser extracts structured items from raw receipt text.
type Parser struct {
	normalizer *normalize.Normalizer
	classifier *constants.Classifier
	patterns   []linePattern
}

// New builds a parser. Nil collaborators fall back to the defaults.
func New(n *normalize.Normalizer, c *constants.Classifier) *Parser {
	if n == nil {
		n = normalize.New()
	}
	if c == nil {
		c = constants.NewClassifier(nil)
	}
	return &Parser{normalizer: n, classifier: c, patterns: defaultPatterns()}
}

// Parse splits rawText into lines, drops metadata and noise, and returns
// the recognized items in line order. Duplicate names across lines are
// kept as separate entries; merging is the caller's decision.
func (p *Parser) Parse(rawText string) []Item {
	var items []Item
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 2 || len(line) > 100 {
			continue
		}
		if isMetadataLine(line) {
			continue
		}

		item, ok := p.matchPatterns(line)
		if !ok {
			item, ok = p.fallback(line)
		}
		if !ok {
			continue
		}
		item.Category = p.classifier.Classify(item.Name)
		items = append(items, item)
	}
	return items
}

func isMetadataLine(line string) bool {
	up := strings.ToUpper(line)
	for _, kw := range skipKeywords {
		if strings.Contains(up, kw) {
			return true
		}
	}
	return reSkipWords.MatchString(up)
}

// matchPatterns tries each structured pattern in priority order. A match
// whose normalized name is too short or carries no letters is discarded
// and the line stays eligible for the fallback scan; this guards against
// digit-only captures from noisy lines.
func (p *Parser) matchPatterns(line string) (Item, bool) {
	for _, pat := range p.patterns {
		m := pat.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ext := pat.extract(m)
		name := p.normalizer.Normalize(ext.name)
		if !usableName(name) {
			continue
		}
		return Item{
			Name:       name,
			Quantity:   ext.quantity,
			Price:      ext.price,
			Confidence: constants.ConfidenceHigh,
		}, true
	}
	return Item{}, false
}

// fallback is the keyword-scan extractor for lines no pattern matched.
func (p *Parser) fallback(line string) (Item, bool) {
	up := strings.ToUpper(line)
	found := false
	for _, kw := range groceryKeywords {
		if strings.Contains(up, kw) {
			found = true
			break
		}
	}
	if !found {
		return Item{}, false
	}

	var price *float64
	if loc := rePrice.FindString(line); loc != "" {
		price = parsePrice(loc)
	}
	quantity := "1"
	if m := reQtyWithUnit.FindStringSubmatch(line); m != nil {
		quantity = m[1] + " " + strings.ToUpper(m[2])
	}

	name := p.normalizer.Normalize(stripNumericTokens(line))
	if !usableName(name) {
		return Item{}, false
	}
	return Item{
		Name:       name,
		Quantity:   quantity,
		Price:      price,
		Confidence: constants.ConfidenceMedium,
	}, true
}

// stripNumericTokens drops price/quantity noise so only the descriptive
// words reach the normalizer.
func stripNumericTokens(line string) string {
	line = reQtyWithUnit.ReplaceAllString(line, " ")
	line = rePrice.ReplaceAllString(line, " ")
	var words []string
	for _, f := range strings.Fields(line) {
		if hasLetter(f) {
			words = append(words, f)
		}
	}
	return strings.Join(words, " ")
}

// usableName rejects names shorter than two characters or without any
// alphabetic content.
func usableName(name string) bool {
	return len(name) >= 2 && hasLetter(name)
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return nil
	}
	return &v
}

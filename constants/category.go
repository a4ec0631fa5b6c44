package constants

import (
	"strings"
)

// Category is the canonical grocery category label shown to the user.
type Category string

const (
	Produce     Category = "Produce"
	Dairy       Category = "Dairy & Eggs"
	Protein     Category = "Meat & Seafood"
	Grains      Category = "Grains & Breads"
	Baking      Category = "Baking"
	CannedGoods Category = "Canned & Jarred Goods"
	Oils        Category = "Oils & Vinegars"
	Condiments  Category = "Condiments & Sauces"
	Spices      Category = "Spices & Seasonings"
	Beverages   Category = "Beverages"
	Snacks      Category = "Snacks"
	Frozen      Category = "Frozen"
	Other       Category = "Other"
)

var allCategories = []Category{
	Produce,
	Dairy,
	Protein,
	Grains,
	Baking,
	CannedGoods,
	Oils,
	Condiments,
	Spices,
	Beverages,
	Snacks,
	Frozen,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// ParseCategory resolves a label (case-insensitive) to a known category.
func ParseCategory(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}
	return Other, false
}

// KeywordRule binds a category to the substrings that select it.
// Rules are evaluated in slice order and the first category with a
// matching keyword wins, so overlapping terms ("tomato" is both fresh
// produce and a canned staple) are decided by position, not by accident.
type KeywordRule struct {
	Category Category
	Keywords []string
}

// DefaultKeywordRules returns the built-in classification table.
// Produce is checked first, which is why bare "tomato" classifies as
// Produce even though it also appears under canned goods.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Produce, []string{
			"apple", "banana", "orange", "grape", "berr", "melon", "peach",
			"pear", "plum", "lemon", "lime", "avocado", "lettuce", "spinach",
			"kale", "tomato", "onion", "potato", "carrot", "celery",
			"pepper", "cucumber", "broccoli", "cauliflower", "garlic",
			"mushroom", "zucchini", "squash", "corn", "cilantro", "parsley",
			"basil", "ginger",
		}},
		{Dairy, []string{
			"milk", "cheese", "yogurt", "butter", "cream", "egg",
			"half and half",
		}},
		{Protein, []string{
			"chicken", "beef", "pork", "turkey", "ham", "bacon", "sausage",
			"steak", "salmon", "tilapia", "shrimp", "tuna", "fish", "tofu",
		}},
		{Grains, []string{
			"bread", "bagel", "tortilla", "pasta", "spaghetti", "noodle",
			"rice", "oat", "cereal", "quinoa", "bun", "roll", "muffin",
		}},
		{Baking, []string{
			"flour", "sugar", "yeast", "baking soda", "baking powder",
			"vanilla", "chocolate chip", "cocoa", "cake mix", "brownie",
		}},
		{CannedGoods, []string{
			"canned", "tomato", "bean", "chickpea", "lentil", "soup",
			"broth", "stock", "salsa", "pickle", "olive", "jam", "jelly",
		}},
		{Oils, []string{
			"oil", "vinegar",
		}},
		{Condiments, []string{
			"ketchup", "mustard", "mayo", "mayonnaise", "dressing", "sauce",
			"syrup", "honey", "relish", "bbq",
		}},
		{Spices, []string{
			"cinnamon", "cumin", "paprika", "oregano", "turmeric", "nutmeg",
			"peppercorn", "seasoning", "spice", "chili powder",
		}},
		{Beverages, []string{
			"juice", "soda", "coffee", "tea", "water", "cola", "lemonade",
			"kombucha", "drink",
		}},
		{Snacks, []string{
			"chip", "cookie", "cracker", "pretzel", "popcorn", "candy",
			"granola", "almond", "peanut", "cashew", "trail mix",
		}},
		{Frozen, []string{
			"frozen", "ice cream", "pizza", "waffle",
		}},
	}
}

// Classifier assigns grocery categories by ordered keyword matching.
type Classifier struct {
	rules []KeywordRule
}

// NewClassifier builds a classifier from an ordered rule table. A nil or
// empty table falls back to the default rules.
func NewClassifier(rules []KeywordRule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultKeywordRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the first category whose keyword list contains a
// substring of name (case-insensitive), or Other.
func (c *Classifier) Classify(name string) Category {
	normalized := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Category
			}
		}
	}
	return Other
}

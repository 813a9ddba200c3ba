package voice

import "strings"

// CategoryOther is returned when no lexicon category matches a product name.
const CategoryOther = "Other"

// category pairs a catalog category with the lowercase keyword substrings
// that identify it. Categories are matched in declaration order and the
// first hit wins, so more specific categories must be listed before broader
// ones that share keywords.
type category struct {
	Name     string
	Keywords []string
}

// categoryLexicon is the static category lookup table, seeded from the
// product groupings used by small sellers (farmers, artisans, kirana
// stores). Read-only at runtime.
var categoryLexicon = []category{
	{"Vegetables", []string{"tomato", "onion", "potato", "carrot", "cabbage", "beans", "peas", "brinjal", "okra", "spinach", "cauliflower"}},
	{"Fruits", []string{"apple", "banana", "orange", "mango", "grapes", "pomegranate", "guava", "papaya"}},
	{"Grains", []string{"rice", "wheat", "corn", "barley", "millet", "dal", "lentil", "atta"}},
	{"Dairy", []string{"milk", "cheese", "butter", "yogurt", "curd", "cream", "ghee", "paneer"}},
	{"Spices", []string{"turmeric", "chili", "coriander", "cumin", "cardamom", "pepper", "masala"}},
	{"Handicrafts", []string{"pottery", "textile", "jewelry", "woodwork", "metalwork", "basket"}},
	{"Clothing", []string{"saree", "kurta", "dupatta", "shawl", "fabric", "lungi"}},
	{"Household", []string{"soap", "oil", "detergent", "broom", "bucket", "candle"}},
	{"Snacks", []string{"biscuit", "namkeen", "tea", "coffee", "juice", "chips", "ladoo"}},
	{"Personal Care", []string{"shampoo", "toothpaste", "face cream", "lotion", "hair oil"}},
}

// InferCategory maps a product name to a catalog category by substring
// matching against the lexicon. The name is lower-cased for matching;
// categories are tried in declared order and the first category with a
// matching keyword wins. Returns CategoryOther when nothing matches.
func InferCategory(productName string) string {
	nameLower := strings.ToLower(productName)
	for _, c := range categoryLexicon {
		for _, kw := range c.Keywords {
			if strings.Contains(nameLower, kw) {
				return c.Name
			}
		}
	}
	return CategoryOther
}

// Categories returns the category names in lexicon order, with the fallback
// category appended. The slice is freshly allocated on each call.
func Categories() []string {
	names := make([]string, 0, len(categoryLexicon)+1)
	for _, c := range categoryLexicon {
		names = append(names, c.Name)
	}
	return append(names, CategoryOther)
}

// CategoryKeywords returns the keyword set for a category name, or nil if
// the category is unknown.
func CategoryKeywords(name string) []string {
	for _, c := range categoryLexicon {
		if c.Name == name {
			return append([]string(nil), c.Keywords...)
		}
	}
	return nil
}

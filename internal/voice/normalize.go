package voice

import (
	"regexp"
	"strings"
)

// Speech-to-text output is messier than typed input: units arrive spelled
// out or abbreviated and whitespace is unpredictable. Normalize rewrites
// those variants into the tokens the command patterns recognize. It is a
// transcript cleanup step, not part of Parse itself.

var whitespaceRe = regexp.MustCompile(`\s+`)

// unitRewrites maps spoken or abbreviated unit variants to canonical unit
// tokens. Applied on word boundaries, case-insensitively.
var unitRewrites = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\bkilograms?\b`), "kg"},
	{regexp.MustCompile(`(?i)\bkilos?\b`), "kg"},
	{regexp.MustCompile(`(?i)\bgms?\b`), "grams"},
	{regexp.MustCompile(`(?i)\bltrs?\b`), "liter"},
	{regexp.MustCompile(`(?i)\blitres?\b`), "liter"},
	{regexp.MustCompile(`(?i)\bpcs?\b`), "piece"},
	{regexp.MustCompile(`(?i)\bpieces\b`), "piece"},
	{regexp.MustCompile(`(?i)\bpkts?\b`), "packet"},
	{regexp.MustCompile(`(?i)\bpackets\b`), "packet"},
	{regexp.MustCompile(`(?i)\bdzn\b`), "dozen"},
}

// Normalize collapses whitespace and canonicalizes spoken unit variants in
// a transcript so it can be handed to Parse. The text is otherwise left
// untouched; casing and word order are preserved.
func Normalize(transcript string) string {
	text := whitespaceRe.ReplaceAllString(strings.TrimSpace(transcript), " ")
	for _, r := range unitRewrites {
		text = r.re.ReplaceAllString(text, r.with)
	}
	return text
}

// Intent is the coarse action a seller is asking for.
type Intent string

// Recognized intents. IntentAddProduct doubles as the default when no
// keyword matches, since adding products is by far the dominant action.
const (
	IntentAddProduct    Intent = "add_product"
	IntentUpdateProduct Intent = "update_product"
	IntentDeleteProduct Intent = "delete_product"
	IntentSearchProduct Intent = "search_product"
	IntentPriceInquiry  Intent = "price_inquiry"
	IntentCategorize    Intent = "categorize"
)

// intentKeywords is checked in declaration order; the first group with a
// keyword present in the utterance decides the intent.
var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentAddProduct, []string{"add", "create", "new", "insert"}},
	{IntentUpdateProduct, []string{"update", "edit", "modify", "change"}},
	{IntentDeleteProduct, []string{"delete", "remove", "cancel"}},
	{IntentSearchProduct, []string{"search", "find", "show", "list"}},
	{IntentPriceInquiry, []string{"price", "cost", "rate", "market"}},
	{IntentCategorize, []string{"category", "type", "classify"}},
}

// DetectIntent classifies an utterance by keyword lookup. This is a static
// table scan, not intent modelling; utterances with no recognized keyword
// default to IntentAddProduct.
func DetectIntent(utterance string) Intent {
	textLower := strings.ToLower(utterance)
	for _, group := range intentKeywords {
		for _, w := range group.words {
			if strings.Contains(textLower, w) {
				return group.intent
			}
		}
	}
	return IntentAddProduct
}

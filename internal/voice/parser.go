// Package voice turns free-form seller utterances ("add 1kg tomatoes 30
// rupees") into structured product-add commands. Parsing is pure pattern
// matching over a fixed set of surface forms plus a static category lexicon;
// it holds no state and is safe for concurrent use.
package voice

import (
	"errors"
	"regexp"
	"strings"
)

// ParsedCommand is the structured form of a single product-add utterance.
// Quantity and Price are the captured digit strings verbatim; numeric
// validation is left to the caller.
type ParsedCommand struct {
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

// ErrNoMatch is returned when an utterance fits none of the command
// patterns. This is an expected outcome; callers should prompt the user to
// rephrase rather than treat it as a fault.
var ErrNoMatch = errors.New("utterance did not match any command pattern")

// Regex fragments shared by the command patterns. The unit alternation is a
// closed set: an unrecognized unit word makes the pattern fail and fall
// through to the next one.
const (
	numFrag  = `\d+(?:\.\d+)?`
	unitFrag = `kg|grams?|liter|litre|piece|dozen|box|bag|packet|meter`

	// Optional separators around the price: a keyword ("for 30", "price 30",
	// "rupees 30"), a currency marker ("₹30", "rs 30"), or a trailing
	// currency word ("30 rupees").
	priceLeadFrag = `(?:(?:price|for|at|rupees|rs)\s+)?(?:₹|rs\.?\s*)?\s*`
	priceTailFrag = `(?:\s*(?:rupees?|rs\.?))?`
)

// pattern pairs a compiled surface form with an extractor that maps its
// capture groups onto a ParsedCommand. Patterns are tried in slice order and
// the first match wins; reordering them changes which utterances parse.
type pattern struct {
	re      *regexp.Regexp
	extract func(m []string) ParsedCommand
}

var commandPatterns = []pattern{
	// [add] <qty><unit> <name> [price|for|at|rupees] <price>
	{
		re: regexp.MustCompile(`(?i)^(?:add\s+)?(` + numFrag + `)\s*(` + unitFrag + `)\s+(.+?)\s+` + priceLeadFrag + `(` + numFrag + `)` + priceTailFrag + `$`),
		extract: func(m []string) ParsedCommand {
			return ParsedCommand{Quantity: m[1], Unit: strings.ToLower(m[2]), ProductName: m[3], Price: m[4]}
		},
	},
	// [add] <name> <qty><unit> [price|for|at|rupees] <price>
	{
		re: regexp.MustCompile(`(?i)^(?:add\s+)?(.+?)\s+(` + numFrag + `)\s*(` + unitFrag + `)\s+` + priceLeadFrag + `(` + numFrag + `)` + priceTailFrag + `$`),
		extract: func(m []string) ParsedCommand {
			return ParsedCommand{ProductName: m[1], Quantity: m[2], Unit: strings.ToLower(m[3]), Price: m[4]}
		},
	},
	// [add] <name> [price|for|at|rupees] <price> [per] <qty><unit>
	{
		re: regexp.MustCompile(`(?i)^(?:add\s+)?(.+?)\s+` + priceLeadFrag + `(` + numFrag + `)` + priceTailFrag + `\s+(?:per\s+)?(` + numFrag + `)\s*(` + unitFrag + `)$`),
		extract: func(m []string) ParsedCommand {
			return ParsedCommand{ProductName: m[1], Price: m[2], Quantity: m[3], Unit: strings.ToLower(m[4])}
		},
	},
}

// Parse converts one utterance into a ParsedCommand. Matching is
// case-insensitive but the product name keeps the casing of the input
// substring, trimmed. The command patterns are tried in priority order and
// the first satisfied pattern supplies the result; the category is then
// inferred from the product name. Returns ErrNoMatch for empty input, when
// no pattern matches, or when the captured name is empty after trimming.
func Parse(utterance string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return nil, ErrNoMatch
	}

	for _, p := range commandPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		cmd := p.extract(m)
		cmd.ProductName = strings.TrimSpace(cmd.ProductName)
		if cmd.ProductName == "" {
			return nil, ErrNoMatch
		}
		cmd.Category = InferCategory(cmd.ProductName)
		return &cmd, nil
	}

	return nil, ErrNoMatch
}

// Units returns the canonical unit tokens recognized by the command
// patterns.
func Units() []string {
	return []string{"kg", "grams", "liter", "litre", "piece", "dozen", "box", "bag", "packet", "meter"}
}

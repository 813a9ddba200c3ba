package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/repository"
	"github.com/bolbazaar/catalog-api/internal/voice"
)

// PriceService suggests listing prices from the seller-wide price history
// plus a small static market table.
type PriceService struct {
	Cfg  *config.Config
	Repo repository.PriceRepo
}

// NewPriceService creates a new PriceService.
func NewPriceService(cfg *config.Config, repo repository.PriceRepo) *PriceService {
	return &PriceService{
		Cfg:  cfg,
		Repo: repo,
	}
}

// PriceSuggestion is a suggested price range for a product.
type PriceSuggestion struct {
	ProductName    string  `json:"product_name"`
	Category       string  `json:"category"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	SuggestedPrice float64 `json:"suggested_price"`
	// Confidence rises with the number of observed prices, capped at 0.9.
	// The quantity-only fallback reports 0.3.
	Confidence float64 `json:"confidence"`
}

// historyWindow is how far back recorded prices count toward a suggestion.
const historyWindow = 30 * 24 * time.Hour

// marketPrices is a static reference table of per-kg rates for staples.
// Stands in for a live mandi price feed.
var marketPrices = map[string][]float64{
	"tomato": {30, 35, 40},
	"onion":  {25, 30, 35},
	"potato": {20, 25, 30},
	"rice":   {40, 50, 60},
	"wheat":  {25, 30, 35},
	"milk":   {50, 55, 60},
}

var quantityNumRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// SuggestPrice produces a price range for a product and quantity. Recorded
// history and the market table are pooled; with no data at all, a base rate
// keyed on the unit in the quantity is used.
func (s *PriceService) SuggestPrice(productName, category, quantity string) (*PriceSuggestion, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, errors.New("product name is required")
	}
	if category == "" {
		category = voice.InferCategory(productName)
	}
	if quantity == "" {
		quantity = "1 kg"
	}

	historical, err := s.Repo.GetRecentPrices(productName, category, time.Now().Add(-historyWindow))
	if err != nil {
		return nil, err
	}

	allPrices := append(historical, lookupMarketPrices(productName)...)

	suggestion := &PriceSuggestion{
		ProductName: productName,
		Category:    category,
	}

	if len(allPrices) == 0 {
		base := basePriceByQuantity(quantity)
		suggestion.MinPrice = round2(base * 0.8)
		suggestion.MaxPrice = round2(base * 1.2)
		suggestion.SuggestedPrice = round2(base)
		suggestion.Confidence = 0.3
		return suggestion, nil
	}

	min, max, sum := allPrices[0], allPrices[0], 0.0
	for _, p := range allPrices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	avg := sum / float64(len(allPrices))

	multiplier := quantityMultiplier(quantity)
	suggestion.MinPrice = round2(min * multiplier)
	suggestion.MaxPrice = round2(max * multiplier)
	suggestion.SuggestedPrice = round2(avg * multiplier)

	confidence := float64(len(allPrices)) / 10
	if confidence > 0.9 {
		confidence = 0.9
	}
	suggestion.Confidence = confidence

	return suggestion, nil
}

func lookupMarketPrices(productName string) []float64 {
	nameLower := strings.ToLower(productName)
	for product, prices := range marketPrices {
		if strings.Contains(nameLower, product) {
			return prices
		}
	}
	return nil
}

// basePriceByQuantity is the last-resort per-unit rate when no price data
// exists.
func basePriceByQuantity(quantity string) float64 {
	quantityLower := strings.ToLower(quantity)
	switch {
	case strings.Contains(quantityLower, "kg"):
		return 30.0
	case strings.Contains(quantityLower, "g"):
		return 5.0
	case strings.Contains(quantityLower, "l"):
		return 25.0
	case strings.Contains(quantityLower, "piece"), strings.Contains(quantityLower, "pc"):
		return 10.0
	default:
		return 20.0
	}
}

// quantityMultiplier scales per-kg reference rates to the requested
// quantity. Grams convert to kg; a piece counts as roughly 0.1 kg.
func quantityMultiplier(quantity string) float64 {
	match := quantityNumRe.FindString(quantity)
	if match == "" {
		return 1.0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 1.0
	}

	quantityLower := strings.ToLower(quantity)
	switch {
	case strings.Contains(quantityLower, "kg"):
		return value
	case strings.Contains(quantityLower, "g"):
		return value / 1000
	case strings.Contains(quantityLower, "l"):
		return value
	case strings.Contains(quantityLower, "piece"), strings.Contains(quantityLower, "pc"):
		return value * 0.1
	default:
		return value
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

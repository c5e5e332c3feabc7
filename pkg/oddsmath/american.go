package oddsmath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustykeyboard1/DKScraper/pkg/models"
)

// AmericanToDecimal converts American odds to decimal odds
// American +200 → Decimal 3.00
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		// Positive odds: (american / 100) + 1
		return (float64(american) / 100.0) + 1.0, nil
	}

	// Negative odds: (-100 / american) + 1
	return (-100.0 / float64(american)) + 1.0, nil
}

// ImpliedProbability converts American odds to the bookmaker's implied probability
// +150 → 100/250 = 0.40
// -150 → 150/250 = 0.60
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}

	return float64(-american) / (float64(-american) + 100.0), nil
}

// ParseAmerican parses a scraped price such as "+150", "-110" or "−110" (unicode minus).
// Blank text and "N/A" yield an invalid price rather than an error.
func ParseAmerican(text string) (models.AmericanOdds, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, models.NotAvailable) {
		return models.AmericanOdds{}, nil
	}

	// Handle both regular minus (-) and unicode minus (−)
	negative := strings.HasPrefix(text, "-") || strings.HasPrefix(text, "−")
	text = strings.TrimPrefix(text, "+")
	text = strings.TrimPrefix(text, "-")
	text = strings.TrimPrefix(text, "−")

	// Workbooks may hand back "150.0"
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return models.AmericanOdds{}, fmt.Errorf("invalid American odds %q: %w", text, err)
	}
	if value == 0 {
		return models.AmericanOdds{}, fmt.Errorf("invalid American odds: cannot be 0")
	}

	v := int(value)
	if negative {
		v = -v
	}
	return models.Price(v), nil
}

package oddsmath

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParlayDecimal returns the combined decimal odds of a parlay: the product of each leg's decimal odds
func ParlayDecimal(legs []int) (float64, error) {
	combined := 1.0
	for i, american := range legs {
		d, err := AmericanToDecimal(american)
		if err != nil {
			return 0, fmt.Errorf("leg %d: %w", i, err)
		}
		combined *= d
	}
	return combined, nil
}

// ExpectedParlayReturn is the profit if every leg wins: stake × (combined - 1)
func ExpectedParlayReturn(stake decimal.Decimal, combined float64) decimal.Decimal {
	if combined <= 1 {
		return decimal.Zero
	}
	return stake.Mul(decimal.NewFromFloat(combined - 1)).Round(2)
}

// ModelEdge is the model's confidence in a side minus the book's implied probability for it
func ModelEdge(confidence, implied float64) float64 {
	return confidence - implied
}

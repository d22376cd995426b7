package parser

import "github.com/shopspring/decimal"

// Confidence weights, in tenths.
const (
	confidenceBase       = 7
	confidenceAmountHit  = 2
	confidencePerHit     = 1
	confidenceHitCeiling = 3
	confidenceMax        = 10
)

// Confidence scores a rule-based extraction: 0.7 base, +0.2 for a positive
// amount, +0.1 per category with a keyword hit up to +0.3, capped at 1.0.
func Confidence(amount decimal.Decimal, categoriesHit int) float64 {
	tenths := confidenceBase
	if amount.IsPositive() {
		tenths += confidenceAmountHit
	}
	if categoriesHit > 0 {
		tenths += min(confidencePerHit*categoriesHit, confidenceHitCeiling)
	}
	if tenths > confidenceMax {
		tenths = confidenceMax
	}
	return float64(tenths) / 10
}

package pricing

import (
	"math"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
)

// Amounts are dollars-and-cents float64 everywhere inside the service, the
// same unit the catalog mapping produces. Conversion to integer minor units
// happens once, at the Square boundary, via Cents.

// TipSpec selects either a preset percentage tier (10/15/20) or a free-form
// custom amount. The zero value means no tip.
type TipSpec struct {
	Percent int
	Custom  float64
}

// LinePrice computes the unit price of a configured line: the chosen
// variation's price when it has one, otherwise the item's base price, plus
// the sum of the selected modifier surcharges. An unknown variation id falls
// back to the base price rather than erroring.
func LinePrice(item catalog.Item, variationID string, selected []catalog.Modifier) float64 {
	base := item.Price
	if v := item.VariationByID(variationID); v != nil && v.Price != nil {
		base = *v.Price
	}

	for _, mod := range selected {
		base += mod.Price
	}

	if base < 0 {
		return 0
	}
	return base
}

// Tip computes the tip for a subtotal. Percent tiers are rounded to the
// cent; a custom amount is taken as-is when non-negative.
func Tip(subtotal float64, spec TipSpec) float64 {
	if spec.Percent > 0 && subtotal > 0 {
		return math.Round(subtotal*float64(spec.Percent)) / 100
	}
	if spec.Custom > 0 {
		return spec.Custom
	}
	return 0
}

// Total is the amount charged: subtotal plus tip.
func Total(subtotal, tip float64) float64 {
	return subtotal + tip
}

// Cents converts a dollar amount to integer minor units, rounding to the
// nearest cent. Truncation would systematically undercharge.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Dollars converts Square minor units back to a dollar amount.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}

package checkout

import (
	"strings"

	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/shopspring/decimal"
)

// Default tip seeded onto every new split customer.
const (
	defaultTipMode  = enum.TipModePercentage
	defaultTipValue = "15"
)

// TipSpec holds a tip as entered plus its derived amount. The amount is
// recomputed whenever the mode, raw value, or base subtotal changes.
type TipSpec struct {
	Mode     enum.TipMode
	RawValue string
	Amount   decimal.Decimal
}

// ComputeTip derives a tip amount from a base subtotal. PERCENTAGE mode takes
// rawValue as a percentage of base; FIXED_AMOUNT takes it verbatim. An empty,
// unparseable, or negative rawValue degrades to a zero tip rather than an
// error, matching the dialog where bad input just means no tip. The result is
// always rounded to 2 decimal places.
func ComputeTip(base decimal.Decimal, mode enum.TipMode, rawValue string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(rawValue))
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}

	switch mode {
	case enum.TipModePercentage:
		return base.Mul(value).Div(decimal.NewFromInt(100)).Round(2)
	case enum.TipModeFixed:
		return value.Round(2)
	}
	return decimal.Zero
}

// NewTipSpec builds a TipSpec with its amount derived against base.
func NewTipSpec(base decimal.Decimal, mode enum.TipMode, rawValue string) TipSpec {
	return TipSpec{
		Mode:     mode,
		RawValue: rawValue,
		Amount:   ComputeTip(base, mode, rawValue),
	}
}

// Rebase recomputes the derived amount against a new base subtotal, keeping
// the entered mode and raw value.
func (t TipSpec) Rebase(base decimal.Decimal) TipSpec {
	t.Amount = ComputeTip(base, t.Mode, t.RawValue)
	return t
}

func isValidTipMode(m enum.TipMode) bool {
	switch m {
	case enum.TipModePercentage, enum.TipModeFixed:
		return true
	}
	return false
}

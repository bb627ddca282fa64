package checkout

import (
	"testing"

	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTip(t *testing.T) {
	tests := []struct {
		name string
		base string
		mode enum.TipMode
		raw  string
		want string
	}{
		{"percent of round base", "40.00", enum.TipModePercentage, "15", "6.00"},
		{"percent rounds to two decimals", "10.05", enum.TipModePercentage, "15", "1.51"},
		{"percent zero", "40.00", enum.TipModePercentage, "0", "0.00"},
		{"fixed verbatim", "40.00", enum.TipModeFixed, "5", "5.00"},
		{"fixed rounds to two decimals", "40.00", enum.TipModeFixed, "3.999", "4.00"},
		{"empty input degrades to zero", "40.00", enum.TipModePercentage, "", "0"},
		{"garbage input degrades to zero", "40.00", enum.TipModeFixed, "abc", "0"},
		{"negative input degrades to zero", "40.00", enum.TipModePercentage, "-10", "0"},
		{"whitespace trimmed", "100.00", enum.TipModePercentage, " 10 ", "10.00"},
		{"unknown mode degrades to zero", "40.00", enum.TipMode("GIFT"), "10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTip(dec(tt.base), tt.mode, tt.raw)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ComputeTip(%s, %s, %q) = %s, want %s",
					tt.base, tt.mode, tt.raw, got, tt.want)
			}
			if got.IsNegative() {
				t.Errorf("tip must never be negative, got %s", got)
			}
			if got.Exponent() < -2 {
				t.Errorf("tip must round to 2 decimals, got %s", got)
			}
		})
	}
}

func TestTipSpecRebase(t *testing.T) {
	tip := NewTipSpec(dec("100.00"), enum.TipModePercentage, "15")
	if !tip.Amount.Equal(dec("15.00")) {
		t.Fatalf("initial tip = %s, want 15.00", tip.Amount)
	}

	tip = tip.Rebase(dec("40.00"))
	if !tip.Amount.Equal(dec("6.00")) {
		t.Errorf("rebased tip = %s, want 6.00", tip.Amount)
	}
	if tip.Mode != enum.TipModePercentage || tip.RawValue != "15" {
		t.Errorf("rebase must keep the entered mode and raw value, got %s %q", tip.Mode, tip.RawValue)
	}
}

package checkout

import "testing"

func TestValidateCash(t *testing.T) {
	tests := []struct {
		name     string
		received string
		required string
		want     bool
	}{
		{"exact amount", "45.50", "45.50", true},
		{"over payment", "50.00", "45.50", true},
		{"under payment", "40.00", "45.50", false},
		{"zero against zero", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCash(dec(tt.received), dec(tt.required)); got != tt.want {
				t.Errorf("ValidateCash(%s, %s) = %v, want %v", tt.received, tt.required, got, tt.want)
			}
		})
	}
}

func TestChangeDue(t *testing.T) {
	tests := []struct {
		name     string
		received string
		required string
		want     string
	}{
		{"change from fifty", "50.00", "45.50", "4.50"},
		{"exact tender", "45.50", "45.50", "0.00"},
		{"under payment clamps to zero", "40.00", "45.50", "0"},
		{"rounds to two decimals", "50.005", "45.50", "4.51"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChangeDue(dec(tt.received), dec(tt.required))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ChangeDue(%s, %s) = %s, want %s", tt.received, tt.required, got, tt.want)
			}
		})
	}
}

package model

import "testing"

func TestTier_Valid(t *testing.T) {
	for _, tier := range Tiers() {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
	}
	if Tier("Tier-D").Valid() {
		t.Error("Tier-D should be invalid")
	}
	if Tier("").Valid() {
		t.Error("empty tier should be invalid")
	}
}

func TestTierInfo_Charge(t *testing.T) {
	tests := []struct {
		base, mult, want float64
	}{
		{25, 2.5, 62.5},
		{15, 1.5, 22.5},
		{10, 1.0, 10},
	}
	for _, tt := range tests {
		info := TierInfo{BaseCharge: tt.base, Multiplier: tt.mult}
		if got := info.Charge(); got != tt.want {
			t.Errorf("Charge(%v×%v) = %v, want %v", tt.base, tt.mult, got, tt.want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies() {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%s) = %v, %v", p, got, err)
		}
	}
	if _, err := ParsePolicy("Lottery"); err == nil {
		t.Error("ParsePolicy(Lottery) should fail")
	}
}

func TestPolicy_Describe(t *testing.T) {
	for _, p := range Policies() {
		if p.Describe() == "" {
			t.Errorf("%s has no description", p)
		}
	}
}

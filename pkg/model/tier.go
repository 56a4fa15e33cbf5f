package model

// Tier is the service class of a room. The tier a room belongs to is fixed
// for the room's lifetime and determines dispatch priority and pricing.
type Tier string

const (
	TierA Tier = "Tier-A"
	TierB Tier = "Tier-B"
	TierC Tier = "Tier-C"
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierA, TierB, TierC:
		return true
	}
	return false
}

// Tiers lists all tiers in rank order, highest urgency first.
func Tiers() []Tier {
	return []Tier{TierA, TierB, TierC}
}

// TierInfo is the side table entry for a tier: rank, pricing, and the
// amenity set every room of the tier carries. Rank 1 is the highest urgency;
// rank values are distinct across tiers. All fields are constants once the
// catalog is initialized.
type TierInfo struct {
	Tier        Tier     `json:"tier"`
	DisplayName string   `json:"display_name"`
	Rank        int      `json:"rank"`
	Multiplier  float64  `json:"multiplier"`
	BaseCharge  float64  `json:"base_charge"`
	Amenities   []string `json:"amenities,omitempty"`
}

// Charge computes the service charge for a request against this tier.
func (i TierInfo) Charge() float64 {
	return i.BaseCharge * i.Multiplier
}

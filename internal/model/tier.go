package model

import "fmt"

// Tier is the classification bucket of a single tap-success rate.
type Tier string

const (
	TierPoor             Tier = "poor"
	TierNeedsImprovement Tier = "needs-improvement"
	TierGood             Tier = "good"
)

// Rate thresholds. Each boundary value belongs to the higher tier.
const (
	PoorThreshold = 0.8
	GoodThreshold = 0.95
)

// Tiers lists every tier from worst to best.
var Tiers = []Tier{TierPoor, TierNeedsImprovement, TierGood}

// Classify maps a tap-success rate to its tier.
func Classify(rate float64) Tier {
	if rate < PoorThreshold {
		return TierPoor
	}
	if rate < GoodThreshold {
		return TierNeedsImprovement
	}
	return TierGood
}

// ParseTier converts a tier name back to a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tier: %q (expected poor, needs-improvement, or good)", s)
}

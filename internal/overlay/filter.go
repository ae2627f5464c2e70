package overlay

import "github.com/tahmarrrr23/tappval/internal/model"

// FilterTier returns the regions of the given tier, keeping paint order.
func FilterTier(regions []Region, tier model.Tier) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if r.Tier == tier {
			out = append(out, r)
		}
	}
	return out
}

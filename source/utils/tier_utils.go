package utils

import "commandcenter/source/schemas"

var VendorScoreTiers = []schemas.VendorScoreTier{
	{Name: "Preferred", MinScore: 85, MaxScore: 100},
	{Name: "Qualified", MinScore: 70, MaxScore: 85},
	{Name: "Conditional", MinScore: 50, MaxScore: 70},
	{Name: "Not Recommended", MinScore: 0, MaxScore: 50},
}

// CalculateScoreTier returns the first tier whose range holds the score. Lower
// bounds are inclusive and upper bounds exclusive, except for the top tier.
func CalculateScoreTier(score float64, tiers []schemas.VendorScoreTier) *schemas.VendorScoreTier {
	for i, tier := range tiers {
		if score < tier.MinScore {
			continue
		}
		if score < tier.MaxScore || (i == 0 && score == tier.MaxScore) {
			return &tiers[i]
		}
	}
	return nil
}

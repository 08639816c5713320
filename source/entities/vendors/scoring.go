package vendors

import (
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"math"
)

var Criteria = []schemas.VendorCriterion{
	{Key: schemas.VENDOR_CRITERION_TECHNICAL_CAPABILITY, Label: "Technical capability", Weight: 30},
	{Key: schemas.VENDOR_CRITERION_PAST_PERFORMANCE, Label: "Past performance", Weight: 25},
	{Key: schemas.VENDOR_CRITERION_PRICE, Label: "Price", Weight: 20},
	{Key: schemas.VENDOR_CRITERION_PUBLIC_SECTOR_EXPERIENCE, Label: "Public sector experience", Weight: 15},
	{Key: schemas.VENDOR_CRITERION_INNOVATION, Label: "Innovation", Weight: 10},
}

// ScoreApplication weighs the ratings into a 0-100 score. A criterion with no
// rating counts as zero and marks the score incomplete.
func ScoreApplication(application schemas.VendorApplication) schemas.VendorScore {
	var earned, possible float64
	unrated := []string{}

	for _, criterion := range Criteria {
		possible += criterion.Weight * schemas.VENDOR_RATING_MAX

		rating, ok := application.Ratings[criterion.Key]
		if !ok {
			unrated = append(unrated, criterion.Key)
			continue
		}
		earned += criterion.Weight * float64(rating)
	}

	score := 0.0
	if possible > 0 {
		score = math.Round(earned/possible*1000) / 10
	}

	result := schemas.VendorScore{
		VendorName: application.VendorName,
		Score:      score,
		Complete:   len(unrated) == 0,
		Tier:       utils.CalculateScoreTier(score, utils.VendorScoreTiers),
	}
	if len(unrated) > 0 {
		result.Unrated = unrated
	}
	return result
}

package schemas

const (
	VENDOR_CRITERION_TECHNICAL_CAPABILITY     = "technical_capability"
	VENDOR_CRITERION_PAST_PERFORMANCE         = "past_performance"
	VENDOR_CRITERION_PRICE                    = "price"
	VENDOR_CRITERION_PUBLIC_SECTOR_EXPERIENCE = "public_sector_experience"
	VENDOR_CRITERION_INNOVATION               = "innovation"

	VENDOR_RATING_MAX = 5
)

type VendorCriterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

type VendorApplication struct {
	VendorName string         `json:"vendor_name" validate:"required,max=200"`
	Ratings    map[string]int `json:"ratings" validate:"required,min=1,dive,keys,oneof=technical_capability past_performance price public_sector_experience innovation,endkeys,gte=0,lte=5"`
}

type VendorScoreTier struct {
	Name     string  `json:"name"`
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`
}

type VendorScore struct {
	VendorName string           `json:"vendor_name"`
	Score      float64          `json:"score"`
	Complete   bool             `json:"complete"`
	Unrated    []string         `json:"unrated,omitempty"`
	Tier       *VendorScoreTier `json:"tier,omitempty"`
}

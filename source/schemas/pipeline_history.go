package schemas

import "time"

// PipelineStageChange is one accepted stage move of a pipeline item.
type PipelineStageChange struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	From      Stage     `json:"from"`
	To        Stage     `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

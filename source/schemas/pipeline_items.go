package schemas

import (
	"fmt"
	"time"
)

type Stage string

const (
	STAGE_LEAD        Stage = "Lead"
	STAGE_DISCOVERY   Stage = "Discovery"
	STAGE_PROPOSAL    Stage = "Proposal"
	STAGE_NEGOTIATION Stage = "Negotiation"
	STAGE_AWARDED     Stage = "Awarded"
	STAGE_LOST        Stage = "Lost"
)

// Stages is the board's column order.
var Stages = []Stage{
	STAGE_LEAD,
	STAGE_DISCOVERY,
	STAGE_PROPOSAL,
	STAGE_NEGOTIATION,
	STAGE_AWARDED,
	STAGE_LOST,
}

func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

func ParseStage(value string) (Stage, error) {
	stage := Stage(value)
	if !stage.Valid() {
		return "", fmt.Errorf("unknown pipeline stage %q", value)
	}
	return stage, nil
}

// PipelineItemDisplay holds the fields joined in at fetch time. They are never
// written back.
type PipelineItemDisplay struct {
	AccountName string `json:"account_name,omitempty" bson:"account_name,omitempty"`
	ContactName string `json:"contact_name,omitempty" bson:"contact_name,omitempty"`
}

type PipelineItem struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Stage          Stage               `json:"stage"`
	EstimatedValue *float64            `json:"estimated_value"`
	CreatedAt      time.Time           `json:"created_at"`
	Display        PipelineItemDisplay `json:"display"`
}

// Value returns the estimated value, treating a missing value as zero.
func (p PipelineItem) Value() float64 {
	if p.EstimatedValue == nil {
		return 0
	}
	return *p.EstimatedValue
}

type PipelineColumn struct {
	Stage      Stage          `json:"stage"`
	Items      []PipelineItem `json:"items"`
	TotalValue float64        `json:"total_value"`
}

type PipelineStageUpdate struct {
	Stage string `json:"stage" validate:"required,oneof=Lead Discovery Proposal Negotiation Awarded Lost"`
}

package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	PROFIT_AND_LOSS_GROUP_ENGAGEMENT = "engagement"
	PROFIT_AND_LOSS_GROUP_MONTH      = "month"

	PROFIT_AND_LOSS_UNASSIGNED = "Unassigned"
)

type Invoice struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Number         string        `json:"number,omitempty" bson:"number,omitempty"`
	EngagementID   bson.ObjectID `json:"engagement_id,omitempty" bson:"engagement_id,omitempty"`
	EngagementName string        `json:"engagement_name,omitempty" bson:"engagement_name,omitempty"`
	IssuedOn       time.Time     `json:"issued_on" bson:"issued_on"`
	Amount         float64       `json:"amount" bson:"amount"`
	Status         string        `json:"status,omitempty" bson:"status,omitempty"`
}

type Payment struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InvoiceID      bson.ObjectID `json:"invoice_id,omitempty" bson:"invoice_id,omitempty"`
	EngagementID   bson.ObjectID `json:"engagement_id,omitempty" bson:"engagement_id,omitempty"`
	EngagementName string        `json:"engagement_name,omitempty" bson:"engagement_name,omitempty"`
	ReceivedOn     time.Time     `json:"received_on" bson:"received_on"`
	Amount         float64       `json:"amount" bson:"amount"`
}

type Expense struct {
	ID             bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EngagementID   bson.ObjectID `json:"engagement_id,omitempty" bson:"engagement_id,omitempty"`
	EngagementName string        `json:"engagement_name,omitempty" bson:"engagement_name,omitempty"`
	IncurredOn     time.Time     `json:"incurred_on" bson:"incurred_on"`
	Amount         float64       `json:"amount" bson:"amount"`
	Category       string        `json:"category,omitempty" bson:"category,omitempty"`
}

type ProfitAndLossLine struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Invoiced    float64 `json:"invoiced"`
	Collected   float64 `json:"collected"`
	Expenses    float64 `json:"expenses"`
	GrossProfit float64 `json:"gross_profit"`
	CashProfit  float64 `json:"cash_profit"`
	Margin      float64 `json:"margin"`
}

type ProfitAndLoss struct {
	From    time.Time           `json:"from"`
	Until   time.Time           `json:"until"`
	GroupBy string              `json:"group_by"`
	Lines   []ProfitAndLossLine `json:"lines"`
	Totals  ProfitAndLossLine   `json:"totals"`
}

package report

import (
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ledgerEntry struct {
	engagementID   bson.ObjectID
	engagementName string
	on             time.Time
}

// RollupProfitAndLoss groups the ledgers by engagement or by month. Rows
// outside [from, until] are ignored; a zero bound is open.
func RollupProfitAndLoss(invoices []schemas.Invoice, payments []schemas.Payment, expenses []schemas.Expense, from, until time.Time, groupBy string) schemas.ProfitAndLoss {
	lines := map[string]*schemas.ProfitAndLossLine{}

	lineFor := func(entry ledgerEntry) *schemas.ProfitAndLossLine {
		key, label := groupKey(entry, groupBy)
		line, ok := lines[key]
		if !ok {
			line = &schemas.ProfitAndLossLine{Key: key, Label: label}
			lines[key] = line
		}
		if line.Label == schemas.PROFIT_AND_LOSS_UNASSIGNED && label != schemas.PROFIT_AND_LOSS_UNASSIGNED {
			line.Label = label
		}
		return line
	}

	inRange := func(t time.Time) bool {
		if !from.IsZero() && t.Before(from) {
			return false
		}
		if !until.IsZero() && t.After(until) {
			return false
		}
		return true
	}

	for _, invoice := range invoices {
		if inRange(invoice.IssuedOn) {
			lineFor(ledgerEntry{invoice.EngagementID, invoice.EngagementName, invoice.IssuedOn}).Invoiced += invoice.Amount
		}
	}
	for _, payment := range payments {
		if inRange(payment.ReceivedOn) {
			lineFor(ledgerEntry{payment.EngagementID, payment.EngagementName, payment.ReceivedOn}).Collected += payment.Amount
		}
	}
	for _, expense := range expenses {
		if inRange(expense.IncurredOn) {
			lineFor(ledgerEntry{expense.EngagementID, expense.EngagementName, expense.IncurredOn}).Expenses += expense.Amount
		}
	}

	report := schemas.ProfitAndLoss{
		From:    from,
		Until:   until,
		GroupBy: groupBy,
		Lines:   make([]schemas.ProfitAndLossLine, 0, len(lines)),
		Totals:  schemas.ProfitAndLossLine{Key: "total", Label: "Total"},
	}

	for _, line := range lines {
		finishLine(line)
		report.Lines = append(report.Lines, *line)

		report.Totals.Invoiced += line.Invoiced
		report.Totals.Collected += line.Collected
		report.Totals.Expenses += line.Expenses
	}
	finishLine(&report.Totals)

	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].Key < report.Lines[j].Key
	})

	return report
}

func groupKey(entry ledgerEntry, groupBy string) (string, string) {
	if groupBy == schemas.PROFIT_AND_LOSS_GROUP_MONTH {
		month := utils.MonthKey(entry.on)
		return month, month
	}

	if entry.engagementID.IsZero() {
		return schemas.PROFIT_AND_LOSS_UNASSIGNED, schemas.PROFIT_AND_LOSS_UNASSIGNED
	}

	label := entry.engagementName
	if label == "" {
		label = schemas.PROFIT_AND_LOSS_UNASSIGNED
	}
	return entry.engagementID.Hex(), label
}

func finishLine(line *schemas.ProfitAndLossLine) {
	line.GrossProfit = line.Invoiced - line.Expenses
	line.CashProfit = line.Collected - line.Expenses
	line.Margin = 0
	if line.Invoiced != 0 {
		line.Margin = line.GrossProfit / line.Invoiced
	}
}

package report

import (
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FinanceStore reads the ledgers within an inclusive date range. A zero time
// leaves that side of the range open.
type FinanceStore interface {
	FetchInvoices(ctx context.Context, from, until time.Time) ([]schemas.Invoice, error)
	FetchPayments(ctx context.Context, from, until time.Time) ([]schemas.Payment, error)
	FetchExpenses(ctx context.Context, from, until time.Time) ([]schemas.Expense, error)
}

type Handler struct {
	finance FinanceStore
}

// NewHandler wires the report endpoints. finance may be nil when no ledger
// store is configured; the endpoints then answer 503.
func NewHandler(finance FinanceStore) *Handler {
	return &Handler{finance: finance}
}

func (h *Handler) GetProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	if h.finance == nil {
		utils.SendResponse(w, http.StatusServiceUnavailable, "Finance ledgers are not configured", nil, 0)
		return
	}

	query := r.URL.Query()

	var from, until time.Time
	if raw := query.Get("from"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.REPORTS_INVALID_DATE_RANGE)
			return
		}
		from = t
	}
	if raw := query.Get("until"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.REPORTS_INVALID_DATE_RANGE)
			return
		}
		until = utils.EndOfDay(t)
	}
	if !from.IsZero() && !until.IsZero() && until.Before(from) {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.REPORTS_INVALID_DATE_RANGE)
		return
	}

	groupBy := query.Get("group_by")
	if groupBy == "" {
		groupBy = schemas.PROFIT_AND_LOSS_GROUP_ENGAGEMENT
	}
	if groupBy != schemas.PROFIT_AND_LOSS_GROUP_ENGAGEMENT && groupBy != schemas.PROFIT_AND_LOSS_GROUP_MONTH {
		utils.SendResponse(w, http.StatusBadRequest, "group_by must be 'engagement' or 'month'", nil, 0)
		return
	}

	var (
		invoices []schemas.Invoice
		payments []schemas.Payment
		expenses []schemas.Expense
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		invoices, err = h.finance.FetchInvoices(ctx, from, until)
		return err
	})
	g.Go(func() (err error) {
		payments, err = h.finance.FetchPayments(ctx, from, until)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = h.finance.FetchExpenses(ctx, from, until)
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("GET /v1/reports/profit-and-loss")
		utils.SendResponse(w, http.StatusBadGateway, "", nil, utils.CANNOT_BUILD_PROFIT_AND_LOSS)
		return
	}

	report := RollupProfitAndLoss(invoices, payments, expenses, from, until, groupBy)
	utils.SendResponse(w, http.StatusOK, "", report, 0)
}

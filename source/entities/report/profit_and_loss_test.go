package report

import (
	"commandcenter/source/schemas"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinance struct {
	ledgers
	err error

	mu     sync.Mutex
	ranges [][2]time.Time
}

func (f *fakeFinance) record(from, until time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ranges = append(f.ranges, [2]time.Time{from, until})
}

func (f *fakeFinance) FetchInvoices(ctx context.Context, from, until time.Time) ([]schemas.Invoice, error) {
	f.record(from, until)
	return f.invoices, f.err
}

func (f *fakeFinance) FetchPayments(ctx context.Context, from, until time.Time) ([]schemas.Payment, error) {
	f.record(from, until)
	return f.payments, nil
}

func (f *fakeFinance) FetchExpenses(ctx context.Context, from, until time.Time) ([]schemas.Expense, error) {
	f.record(from, until)
	return f.expenses, nil
}

func getProfitAndLoss(t *testing.T, h *Handler, target string) (*httptest.ResponseRecorder, schemas.ProfitAndLoss) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.GetProfitAndLoss(rec, httptest.NewRequest(http.MethodGet, target, nil))

	resp := struct {
		Data schemas.ProfitAndLoss `json:"data"`
	}{}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp.Data
}

func TestGetProfitAndLoss(t *testing.T) {
	l, _, _ := sampleLedgers()
	finance := &fakeFinance{ledgers: l}

	rec, report := getProfitAndLoss(t, NewHandler(finance), "/v1/reports/profit-and-loss?from=2026-01-01&until=2026-01-31&group_by=month")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schemas.PROFIT_AND_LOSS_GROUP_MONTH, report.GroupBy)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "2026-01", report.Lines[0].Key)

	require.Len(t, finance.ranges, 3)
	for _, r := range finance.ranges {
		assert.Equal(t, day(time.January, 1), r[0])
		assert.Equal(t, day(time.February, 1).Add(-time.Nanosecond), r[1])
	}
}

func TestGetProfitAndLossDefaultsToEngagements(t *testing.T) {
	l, _, _ := sampleLedgers()

	rec, report := getProfitAndLoss(t, NewHandler(&fakeFinance{ledgers: l}), "/v1/reports/profit-and-loss")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schemas.PROFIT_AND_LOSS_GROUP_ENGAGEMENT, report.GroupBy)
	assert.Len(t, report.Lines, 3)
}

func TestGetProfitAndLossRejectsBadQueries(t *testing.T) {
	h := NewHandler(&fakeFinance{})

	for _, target := range []string{
		"/v1/reports/profit-and-loss?from=yesterday",
		"/v1/reports/profit-and-loss?until=31/01/2026",
		"/v1/reports/profit-and-loss?from=2026-02-01&until=2026-01-01",
		"/v1/reports/profit-and-loss?group_by=quarter",
	} {
		rec, _ := getProfitAndLoss(t, h, target)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetProfitAndLossStoreFailures(t *testing.T) {
	rec, _ := getProfitAndLoss(t, NewHandler(&fakeFinance{err: errors.New("mongo down")}), "/v1/reports/profit-and-loss")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, _ = getProfitAndLoss(t, NewHandler(nil), "/v1/reports/profit-and-loss")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

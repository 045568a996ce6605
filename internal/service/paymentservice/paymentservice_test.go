package paymentservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/internal/testutil/memstore"
)

func intp(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return New(store, store, store, store, store), store
}

func seedAccount(store *memstore.Store, id int, status domain.Status, supplierID *int) {
	store.AddAccount(domain.Account{
		ID:         id,
		Status:     status,
		SupplierID: supplierID,
		Price:      dec("70"),
		TotalPaid:  decimal.Zero,
		CreatedAt:  t0,
	})
	store.AddLog(domain.AccountLog{AccountID: id, LogType: domain.LogTypeStatus, Status: status, StartAt: t0})
}

func TestSettle(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, nil)
	store.AddLog(domain.AccountLog{AccountID: 1, LogType: domain.LogTypeManager, ManagerID: intp(10), StartAt: t0})
	campaign := store.AddCampaign(1, t0)

	now := at(30)
	results, err := svc.Settle(context.Background(),
		[]SettleEntry{{AccountID: 1, Amount: dec("4100")}}, dec("41"), at(24), nil, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "100", results[0].TotalPaid.String())
	assert.Equal(t, at(24), results[0].PaidTill)

	acc := store.Account(1)
	assert.Equal(t, "100", acc.TotalPaid.String())
	require.NotNil(t, acc.PaidTill)
	assert.Equal(t, at(24), *acc.PaidTill)

	payments := store.Payments(1)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.Day(now), payments[0].Date)
	assert.Equal(t, "4100", payments[0].AmountUAH.String())

	stats := store.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, intp(10), stats[0].UserID)
	assert.Equal(t, &campaign, stats[0].CampaignID)
	assert.Equal(t, "4100", stats[0].Payment.String())
	assert.Equal(t, "-4100", stats[0].Profit.String())
}

func TestSettle_RerunSameDayIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, nil)
	ctx := context.Background()
	entries := []SettleEntry{{AccountID: 1, Amount: dec("4100")}}

	first, err := svc.Settle(ctx, entries, dec("41"), at(24), nil, at(30))
	require.NoError(t, err)
	second, err := svc.Settle(ctx, entries, dec("41"), at(24), nil, at(31))
	require.NoError(t, err)

	assert.Equal(t, first[0].TotalPaid.String(), second[0].TotalPaid.String())
	assert.Len(t, store.Payments(1), 1)
	require.Len(t, store.Stats(), 1)
	assert.Equal(t, "4100", store.Stats()[0].Payment.String())

	next, err := svc.Settle(ctx, []SettleEntry{{AccountID: 1, Amount: dec("2050")}}, dec("41"), at(48), nil, at(54))
	require.NoError(t, err)
	assert.Equal(t, "150", next[0].TotalPaid.String())
	assert.Len(t, store.Payments(1), 2)
}

func TestSettle_PaidTillStopsAtHold(t *testing.T) {
	svc, store := newTestService(t)
	store.AddAccount(domain.Account{ID: 1, Status: domain.StatusOnVerify, Price: dec("70"), CreatedAt: t0})
	store.AddLog(domain.AccountLog{AccountID: 1, LogType: domain.LogTypeStatus, Status: domain.StatusActive, StartAt: t0, EndAt: atp(20)})
	store.AddLog(domain.AccountLog{AccountID: 1, LogType: domain.LogTypeStatus, Status: domain.StatusOnVerify, StartAt: at(20)})

	results, err := svc.Settle(context.Background(),
		[]SettleEntry{{AccountID: 1, Amount: dec("410")}}, dec("41"), at(24), nil, at(25))
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, at(20), results[0].PaidTill)
}

func TestQuotes_AgreeWithSettledPaidTill(t *testing.T) {
	svc, store := newTestService(t)
	store.AddAccount(domain.Account{ID: 1, Status: domain.StatusOnVerify, Price: dec("70"), CreatedAt: t0})
	store.AddLog(domain.AccountLog{AccountID: 1, LogType: domain.LogTypeStatus, Status: domain.StatusActive, StartAt: t0, EndAt: atp(20)})
	store.AddLog(domain.AccountLog{AccountID: 1, LogType: domain.LogTypeStatus, Status: domain.StatusOnVerify, StartAt: at(20)})

	quotes, err := svc.Quotes(context.Background(), at(24), nil, at(24))
	require.NoError(t, err)
	require.Len(t, quotes, 1)

	results, err := svc.Settle(context.Background(),
		[]SettleEntry{{AccountID: 1, Amount: quotes[0].Amount}}, dec("1"), at(24), nil, at(24))
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	assert.Equal(t, results[0].PaidTill, quotes[0].PaidTill)
	assert.Equal(t, at(20).Sub(t0), quotes[0].BillableDuration)
}

func TestSettle_FailuresAreIsolated(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, nil)
	seedAccount(store, 2, domain.StatusActive, nil)
	store.FailLock(2, pg.ErrConcurrentModification)

	results, err := svc.Settle(context.Background(), []SettleEntry{
		{AccountID: 1, Amount: dec("41")},
		{AccountID: 2, Amount: dec("41")},
		{AccountID: 3, Amount: dec("41")},
		{AccountID: 1, Amount: dec("-1")},
	}, dec("41"), at(24), nil, at(30))
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, pg.ErrConcurrentModification)
	assert.ErrorIs(t, results[2].Err, ErrAccountNotFound)
	assert.ErrorIs(t, results[3].Err, ErrInvalidAmount)

	assert.Len(t, store.Payments(1), 1)
	assert.Empty(t, store.Payments(2))
	assert.True(t, store.Account(2).TotalPaid.IsZero())
}

func TestSettle_InvalidRate(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, nil)

	for _, rate := range []string{"0", "-41"} {
		_, err := svc.Settle(context.Background(), []SettleEntry{{AccountID: 1, Amount: dec("41")}}, dec(rate), at(24), nil, at(30))
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
	assert.Zero(t, store.Writes())
}

func TestQuotes(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, intp(20))
	seedAccount(store, 2, domain.StatusActive, intp(21))
	store.AddAccount(domain.Account{ID: 3, Status: domain.StatusActive, Price: decimal.Zero, CreatedAt: t0})

	tests := []struct {
		name       string
		supplierID *int
		expected   []int
	}{
		{name: "All billable accounts", expected: []int{1, 2}},
		{name: "Narrowed to one supplier", supplierID: intp(21), expected: []int{2}},
		{name: "Unknown supplier", supplierID: intp(99), expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes, err := svc.Quotes(context.Background(), at(48), tt.supplierID, at(50))
			require.NoError(t, err)
			ids := []int{}
			for _, q := range quotes {
				ids = append(ids, q.AccountID)
				assert.Equal(t, int64(2), q.Days)
				assert.Equal(t, "20", q.Amount.String())
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestQuotes_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountRepo(ctrl)
	svc := New(accounts, NewMockLogRepo(ctrl), NewMockPaymentRepo(ctrl), NewMockDayStatRepo(ctrl), pg.NewMockTXManager(ctrl))

	accounts.EXPECT().FindBillable(gomock.Any(), gomock.Nil()).Return(nil, errors.New("db error"))

	_, err := svc.Quotes(context.Background(), at(48), nil, at(50))
	assert.EqualError(t, err, "db error")
}

func TestHistory(t *testing.T) {
	svc, store := newTestService(t)
	seedAccount(store, 1, domain.StatusActive, nil)
	seedAccount(store, 2, domain.StatusActive, nil)
	ctx := context.Background()

	_, err := svc.Settle(ctx, []SettleEntry{
		{AccountID: 1, Amount: dec("410")},
		{AccountID: 2, Amount: dec("820")},
	}, dec("41"), at(24), nil, at(30))
	require.NoError(t, err)

	days, err := svc.History(ctx, t0, at(72))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, domain.Day(at(30)), days[0].Date)
	assert.Equal(t, "30", days[0].AmountUSD.String())
	assert.Equal(t, "1230", days[0].AmountUAH.String())
	assert.Equal(t, 2, days[0].Accounts)

	_, err = svc.History(ctx, at(72), t0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestRecordDayStats(t *testing.T) {
	svc, store := newTestService(t)

	recorded, err := svc.RecordDayStats(context.Background(), []domain.DayStat{
		{Date: at(3), AccountID: 1, UserID: intp(10), Spend: dec("5"), Revenue: dec("12"), Leads: 1, Clicks: 40},
		{Date: at(9), AccountID: 1, UserID: intp(10), Spend: dec("3"), Revenue: dec("0"), Leads: 0, Clicks: 15},
		{Date: at(9), AccountID: 1, Spend: dec("1"), Revenue: dec("2")},
	})
	require.NoError(t, err)
	require.Len(t, recorded, 3)
	assert.Equal(t, "4", recorded[1].Profit.String())

	stats := store.Stats()
	require.Len(t, stats, 2)
	var attributed domain.DayStat
	for _, st := range stats {
		if st.UserID != nil {
			attributed = st
		}
	}
	assert.Equal(t, "8", attributed.Spend.String())
	assert.Equal(t, "12", attributed.Revenue.String())
	assert.Equal(t, 1, attributed.Leads)
	assert.Equal(t, 55, attributed.Clicks)
	assert.Equal(t, "4", attributed.Profit.String())
}

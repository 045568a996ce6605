package paymentservice

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/metrics"
	"github.com/GlebRadaev/farmops/internal/pg"
)

//go:generate mockgen -source=paymentservice.go -destination=mock_paymentservice.go -package=paymentservice

type AccountRepo interface {
	GetAccountForUpdate(ctx context.Context, id int) (*domain.Account, error)
	FindBillable(ctx context.Context, supplierID *int) ([]domain.Account, error)
	UpdateBilling(ctx context.Context, acc *domain.Account) error
	PrimaryCampaign(ctx context.Context, accountID int) (*int, error)
}

type LogRepo interface {
	FindLogs(ctx context.Context, accountID int, logType domain.LogType) ([]domain.AccountLog, error)
	FindLogsBetween(ctx context.Context, accountID int, logType domain.LogType, from, to time.Time) ([]domain.AccountLog, error)
	ValueAt(ctx context.Context, accountID int, logType domain.LogType, at time.Time) (*domain.AccountLog, error)
}

type PaymentRepo interface {
	Upsert(ctx context.Context, payment *domain.AccountPayment) error
	SumUSD(ctx context.Context, accountID int) (decimal.Decimal, error)
	History(ctx context.Context, from, to time.Time) ([]domain.PaymentDay, error)
}

type DayStatRepo interface {
	AddCounters(ctx context.Context, stat *domain.DayStat) error
	SetPayment(ctx context.Context, stat *domain.DayStat) error
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidRate     = errors.New("exchange rate must be positive")
	ErrInvalidAmount   = errors.New("payment amount must not be negative")
	ErrInvalidPeriod   = errors.New("period start is after its end")
)

const settleWorkers = 8

type Service struct {
	accounts  AccountRepo
	logs      LogRepo
	payments  PaymentRepo
	dayStats  DayStatRepo
	txManager pg.TXManager
}

func New(accounts AccountRepo, logs LogRepo, payments PaymentRepo, dayStats DayStatRepo, txManager pg.TXManager) *Service {
	return &Service{
		accounts:  accounts,
		logs:      logs,
		payments:  payments,
		dayStats:  dayStats,
		txManager: txManager,
	}
}

// SettleEntry is the amount paid for one account, in the settlement currency.
type SettleEntry struct {
	AccountID int
	Amount    decimal.Decimal
}

type SettleResult struct {
	AccountID int
	TotalPaid decimal.Decimal
	PaidTill  time.Time
	Err       error
}

// Settle records a batch of payments. Each account is settled in its own
// transaction, so one failure leaves the others committed. Rerunning a batch
// on the same day overwrites that day's payment rather than adding to it.
func (s *Service) Settle(
	ctx context.Context,
	entries []SettleEntry,
	rate decimal.Decimal,
	payTill time.Time,
	actor *domain.Actor,
	now time.Time,
) ([]SettleResult, error) {
	if !rate.IsPositive() {
		return nil, ErrInvalidRate
	}

	results := make([]SettleResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settleWorkers)
	for i, entry := range entries {
		g.Go(func() error {
			results[i] = s.settleOne(gctx, entry, rate, payTill, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		outcome := "ok"
		if r.Err != nil {
			outcome = "failed"
		}
		metrics.Settlements.WithLabelValues(outcome).Inc()
	}
	zap.L().Info("settlement batch processed",
		zap.Int("accounts", len(entries)), zap.Time("pay_till", payTill),
		zap.String("rate", rate.String()), zap.Intp("actor_id", domain.ActorID(actor)))
	return results, nil
}

func (s *Service) settleOne(ctx context.Context, entry SettleEntry, rate decimal.Decimal, payTill, now time.Time) SettleResult {
	result := SettleResult{AccountID: entry.AccountID}
	if entry.Amount.IsNegative() {
		result.Err = ErrInvalidAmount
		return result
	}

	today := domain.Day(now)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.GetAccountForUpdate(ctx, entry.AccountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return ErrAccountNotFound
		}

		logs, err := s.logs.FindLogs(ctx, acc.ID, domain.LogTypeStatus)
		if err != nil {
			return err
		}
		paidTill := EffectivePaidTill(logs, payTill)
		if acc.PaidTill != nil && acc.PaidTill.After(paidTill) {
			paidTill = *acc.PaidTill
		}

		payment := &domain.AccountPayment{
			AccountID: acc.ID,
			Date:      today,
			AmountUSD: entry.Amount.DivRound(rate, 2),
			AmountUAH: entry.Amount,
		}
		if err := s.payments.Upsert(ctx, payment); err != nil {
			return err
		}

		total, err := s.payments.SumUSD(ctx, acc.ID)
		if err != nil {
			return err
		}
		acc.TotalPaid = total
		acc.PaidTill = &paidTill
		if err := s.accounts.UpdateBilling(ctx, acc); err != nil {
			return err
		}

		stat := &domain.DayStat{Date: today, AccountID: acc.ID, Payment: entry.Amount}
		manager, err := s.logs.ValueAt(ctx, acc.ID, domain.LogTypeManager, now)
		if err != nil {
			return err
		}
		if manager != nil {
			stat.UserID = manager.ManagerID
		}
		if stat.CampaignID, err = s.accounts.PrimaryCampaign(ctx, acc.ID); err != nil {
			return err
		}
		if err := s.dayStats.SetPayment(ctx, stat); err != nil {
			return err
		}

		result.TotalPaid = total
		result.PaidTill = paidTill
		return nil
	})
	if err != nil {
		zap.L().Error("failed to settle account", zap.Int("account_id", entry.AccountID), zap.Error(err))
		result.Err = err
	}
	return result
}

// Quotes computes what every billable account owes up to cutoff.
func (s *Service) Quotes(ctx context.Context, cutoff time.Time, supplierID *int, now time.Time) ([]Billing, error) {
	accounts, err := s.accounts.FindBillable(ctx, supplierID)
	if err != nil {
		zap.L().Error("failed to get billable accounts", zap.Error(err))
		return nil, err
	}

	quotes := make([]Billing, 0, len(accounts))
	for i := range accounts {
		acc := &accounts[i]
		logs, err := s.logs.FindLogsBetween(ctx, acc.ID, domain.LogTypeStatus, acc.BillingStart(), cutoff)
		if err != nil {
			zap.L().Error("failed to get status logs for quote", zap.Int("account_id", acc.ID), zap.Error(err))
			return nil, err
		}
		quotes = append(quotes, BillingPeriods(acc, logs, acc.BillingStart(), cutoff, now))
	}
	return quotes, nil
}

func (s *Service) History(ctx context.Context, from, to time.Time) ([]domain.PaymentDay, error) {
	if from.After(to) {
		return nil, ErrInvalidPeriod
	}
	days, err := s.payments.History(ctx, domain.Day(from), domain.Day(to))
	if err != nil {
		zap.L().Error("failed to get payment history", zap.Error(err))
		return nil, err
	}
	return days, nil
}

// RecordDayStats adds a batch of counters. Rows for the same key add up.
func (s *Service) RecordDayStats(ctx context.Context, stats []domain.DayStat) ([]domain.DayStat, error) {
	recorded := make([]domain.DayStat, 0, len(stats))
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		for i := range stats {
			stat := stats[i]
			if err := s.dayStats.AddCounters(ctx, &stat); err != nil {
				return err
			}
			recorded = append(recorded, stat)
		}
		return nil
	})
	if err != nil {
		zap.L().Error("failed to record day stats", zap.Int("rows", len(stats)), zap.Error(err))
		return nil, err
	}
	return recorded, nil
}

package paymentrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

// Upsert stores the payment for (account, date). A rerun for the same date
// replaces the amounts instead of adding to them.
func (r *Repository) Upsert(ctx context.Context, payment *domain.AccountPayment) error {
	query := `
        INSERT INTO account_payments (account_id, date, amount_usd, amount_uah)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (account_id, date)
        DO UPDATE SET amount_usd = EXCLUDED.amount_usd, amount_uah = EXCLUDED.amount_uah
        RETURNING id
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query, payment.AccountID, payment.Date, payment.AmountUSD, payment.AmountUAH).Scan(&payment.ID)
		if err != nil {
			zap.L().Error("failed to upsert account payment", zap.Int("account_id", payment.AccountID), zap.Error(err))
			return err
		}
		return nil
	})
}

// SumUSD totals every payment ever recorded for the account.
func (r *Repository) SumUSD(ctx context.Context, accountID int) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(amount_usd), 0)
        FROM account_payments
        WHERE account_id = $1
    `
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&total); err != nil {
		zap.L().Error("failed to sum account payments", zap.Int("account_id", accountID), zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

// History aggregates payments per day in [from, to], oldest first.
func (r *Repository) History(ctx context.Context, from, to time.Time) ([]domain.PaymentDay, error) {
	query := `
        SELECT date, SUM(amount_usd), SUM(amount_uah), COUNT(DISTINCT account_id)
        FROM account_payments
        WHERE date >= $1 AND date <= $2
        GROUP BY date
        ORDER BY date ASC
    `
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		zap.L().Error("failed to get payment history", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var days []domain.PaymentDay
	for rows.Next() {
		var d domain.PaymentDay
		if err := rows.Scan(&d.Date, &d.AmountUSD, &d.AmountUAH, &d.Accounts); err != nil {
			zap.L().Error("can't scan payment history row", zap.Error(err))
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate payment history rows", zap.Error(err))
		return nil, err
	}
	return days, nil
}

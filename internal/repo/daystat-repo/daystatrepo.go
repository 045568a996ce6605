package daystatrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
)

// Rows are keyed by (date, account_id, user_id, campaign_id). Absent user or
// campaign are written as domain.NoRef so the conflict target always
// matches; profit is recomputed from the stored counters on every write.
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

// AddCounters merges the counters of stat into its row. Concurrent calls add
// up; payment is left untouched.
func (r *Repository) AddCounters(ctx context.Context, stat *domain.DayStat) error {
	query := `
        INSERT INTO user_account_day_stats AS s
            (date, account_id, user_id, campaign_id, spend, revenue, leads, clicks, payment, profit)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $6 - $5)
        ON CONFLICT (date, account_id, user_id, campaign_id)
        DO UPDATE SET
            spend   = s.spend + EXCLUDED.spend,
            revenue = s.revenue + EXCLUDED.revenue,
            leads   = s.leads + EXCLUDED.leads,
            clicks  = s.clicks + EXCLUDED.clicks,
            profit  = (s.revenue + EXCLUDED.revenue) - (s.spend + EXCLUDED.spend) - s.payment
        RETURNING spend, revenue, leads, clicks, payment, profit
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query,
			domain.Day(stat.Date), stat.AccountID, domain.RefOrNone(stat.UserID), domain.RefOrNone(stat.CampaignID),
			stat.Spend, stat.Revenue, stat.Leads, stat.Clicks,
		).Scan(&stat.Spend, &stat.Revenue, &stat.Leads, &stat.Clicks, &stat.Payment, &stat.Profit)
		if err != nil {
			zap.L().Error("failed to add day stat counters", zap.Int("account_id", stat.AccountID), zap.Error(err))
			return err
		}
		return nil
	})
}

// SetPayment overwrites the payment of the row and recomputes profit.
func (r *Repository) SetPayment(ctx context.Context, stat *domain.DayStat) error {
	query := `
        INSERT INTO user_account_day_stats AS s
            (date, account_id, user_id, campaign_id, payment, profit)
        VALUES ($1, $2, $3, $4, $5, -$5)
        ON CONFLICT (date, account_id, user_id, campaign_id)
        DO UPDATE SET
            payment = EXCLUDED.payment,
            profit  = s.revenue - s.spend - EXCLUDED.payment
        RETURNING spend, revenue, leads, clicks, payment, profit
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query,
			domain.Day(stat.Date), stat.AccountID, domain.RefOrNone(stat.UserID), domain.RefOrNone(stat.CampaignID),
			stat.Payment,
		).Scan(&stat.Spend, &stat.Revenue, &stat.Leads, &stat.Clicks, &stat.Payment, &stat.Profit)
		if err != nil {
			zap.L().Error("failed to set day stat payment", zap.Int("account_id", stat.AccountID), zap.Error(err))
			return err
		}
		return nil
	})
}

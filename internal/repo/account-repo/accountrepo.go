package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
)

const accountColumns = `id, name, status, status_comment, status_changed_at, manager_id, supplier_id,
        created_by_id, card_number, credential, price, total_paid, paid_till, total_funds, funds_wait, created_at`

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

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.ID, &acc.Name, &acc.Status, &acc.StatusComment, &acc.StatusChangedAt,
		&acc.ManagerID, &acc.SupplierID, &acc.CreatedByID, &acc.CardNumber, &acc.Credential,
		&acc.Price, &acc.TotalPaid, &acc.PaidTill, &acc.TotalFunds, &acc.FundsWait, &acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE id = $1
    `
	acc, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get account", zap.Int("account_id", id), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

// GetAccountForUpdate locks the account row until the surrounding
// transaction ends. It must be called inside TXManager.Begin.
func (r *Repository) GetAccountForUpdate(ctx context.Context, id int) (*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE id = $1
        FOR UPDATE
    `
	acc, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't lock account", zap.Int("account_id", id), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

// FindBillable returns accounts with a price set, optionally narrowed to one
// supplier.
func (r *Repository) FindBillable(ctx context.Context, supplierID *int) ([]domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE price > 0 AND ($1::int IS NULL OR supplier_id = $1)
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, supplierID)
	if err != nil {
		zap.L().Error("can't get billable accounts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			zap.L().Error("can't scan account row", zap.Error(err))
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate account rows", zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, acc *domain.Account) error {
	query := `
        UPDATE accounts
        SET status = $1, status_comment = $2, status_changed_at = $3, credential = $4
        WHERE id = $5
    `
	_, err := r.db.Exec(ctx, query, acc.Status, acc.StatusComment, acc.StatusChangedAt, acc.Credential, acc.ID)
	if err != nil {
		zap.L().Error("failed to update account status", zap.Int("account_id", acc.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateManager(ctx context.Context, acc *domain.Account) error {
	query := `
        UPDATE accounts
        SET manager_id = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, acc.ManagerID, acc.ID)
	if err != nil {
		zap.L().Error("failed to update account manager", zap.Int("account_id", acc.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateCard(ctx context.Context, acc *domain.Account) error {
	query := `
        UPDATE accounts
        SET card_number = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, acc.CardNumber, acc.ID)
	if err != nil {
		zap.L().Error("failed to update account card", zap.Int("account_id", acc.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateBilling(ctx context.Context, acc *domain.Account) error {
	query := `
        UPDATE accounts
        SET total_paid = $1, paid_till = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, acc.TotalPaid, acc.PaidTill, acc.ID)
	if err != nil {
		zap.L().Error("failed to update account billing", zap.Int("account_id", acc.ID), zap.Error(err))
		return err
	}
	return nil
}

// UnassignCampaigns unlinks every campaign running on the account.
func (r *Repository) UnassignCampaigns(ctx context.Context, accountID int) (int64, error) {
	query := `
        UPDATE campaigns
        SET account_id = NULL
        WHERE account_id = $1
    `
	tag, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		zap.L().Error("failed to unassign campaigns", zap.Int("account_id", accountID), zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PrimaryCampaign returns the oldest campaign linked to the account, or nil.
func (r *Repository) PrimaryCampaign(ctx context.Context, accountID int) (*int, error) {
	query := `
        SELECT id
        FROM campaigns
        WHERE account_id = $1
        ORDER BY created_at ASC, id ASC
        LIMIT 1
    `
	var id int
	err := r.db.QueryRow(ctx, query, accountID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get primary campaign", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	return &id, nil
}

package accountlogrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
)

var ErrInvalidDimensionPayload = errors.New("invalid dimension payload")

const logColumns = `id, account_id, log_type, start_at, end_at, status, manager_id, card_number, changed_by`

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

// ValidatePayload checks that the entry carries the value its log type
// records. MANAGER rows may hold a nil manager: that interval means the
// account was unassigned.
func ValidatePayload(entry *domain.AccountLog) error {
	switch entry.LogType {
	case domain.LogTypeStatus:
		if !entry.Status.Valid() {
			return fmt.Errorf("%w: STATUS entry needs a status, got %q", ErrInvalidDimensionPayload, entry.Status)
		}
	case domain.LogTypeCard:
		if entry.CardNumber == "" {
			return fmt.Errorf("%w: CARD entry needs a card number", ErrInvalidDimensionPayload)
		}
	case domain.LogTypeManager:
	default:
		return fmt.Errorf("%w: unknown log type %q", ErrInvalidDimensionPayload, entry.LogType)
	}
	return nil
}

// LogChange closes the open interval of entry.LogType for the account and
// opens a new one starting at now. The open row is locked before it is
// closed; the partial unique index on open rows rejects a second writer that
// found nothing to lock.
func (r *Repository) LogChange(ctx context.Context, entry *domain.AccountLog, now time.Time) error {
	if err := ValidatePayload(entry); err != nil {
		zap.L().Error("refusing account log entry", zap.Int("account_id", entry.AccountID), zap.Error(err))
		return err
	}

	lockQuery := `
        SELECT id
        FROM account_logs
        WHERE account_id = $1 AND log_type = $2 AND end_at IS NULL
        FOR UPDATE
    `
	closeQuery := `
        UPDATE account_logs
        SET end_at = $1
        WHERE id = $2
    `
	insertQuery := `
        INSERT INTO account_logs (account_id, log_type, start_at, status, manager_id, card_number, changed_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		var openID int
		err := r.db.QueryRow(ctx, lockQuery, entry.AccountID, entry.LogType).Scan(&openID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			zap.L().Error("can't lock open account log", zap.Int("account_id", entry.AccountID), zap.Error(err))
			return err
		default:
			if _, err := r.db.Exec(ctx, closeQuery, now, openID); err != nil {
				zap.L().Error("can't close account log", zap.Int("log_id", openID), zap.Error(err))
				return err
			}
		}

		var id int
		err = r.db.QueryRow(ctx, insertQuery,
			entry.AccountID, entry.LogType, now, entry.Status, entry.ManagerID, entry.CardNumber, entry.ChangedBy,
		).Scan(&id)
		if err != nil {
			zap.L().Error("can't insert account log", zap.Int("account_id", entry.AccountID), zap.Error(err))
			return err
		}
		entry.ID = id
		entry.StartAt = now
		entry.EndAt = nil
		return nil
	})
}

func (r *Repository) scanLogs(rows pgx.Rows) ([]domain.AccountLog, error) {
	defer rows.Close()

	var logs []domain.AccountLog
	for rows.Next() {
		var l domain.AccountLog
		err := rows.Scan(&l.ID, &l.AccountID, &l.LogType, &l.StartAt, &l.EndAt, &l.Status, &l.ManagerID, &l.CardNumber, &l.ChangedBy)
		if err != nil {
			zap.L().Error("can't scan account log row", zap.Error(err))
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("can't iterate account log rows", zap.Error(err))
		return nil, err
	}
	return logs, nil
}

// FindLogs returns the whole timeline of a dimension, oldest first.
func (r *Repository) FindLogs(ctx context.Context, accountID int, logType domain.LogType) ([]domain.AccountLog, error) {
	query := `
        SELECT ` + logColumns + `
        FROM account_logs
        WHERE account_id = $1 AND log_type = $2
        ORDER BY start_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, accountID, logType)
	if err != nil {
		zap.L().Error("can't get account logs", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	return r.scanLogs(rows)
}

// FindLogsBetween returns intervals overlapping [from, to), oldest first.
func (r *Repository) FindLogsBetween(ctx context.Context, accountID int, logType domain.LogType, from, to time.Time) ([]domain.AccountLog, error) {
	query := `
        SELECT ` + logColumns + `
        FROM account_logs
        WHERE account_id = $1 AND log_type = $2
          AND start_at < $4 AND (end_at IS NULL OR end_at > $3)
        ORDER BY start_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, accountID, logType, from, to)
	if err != nil {
		zap.L().Error("can't get account logs in window", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	return r.scanLogs(rows)
}

// EarliestStart returns when the account first entered status, or nil.
func (r *Repository) EarliestStart(ctx context.Context, accountID int, status domain.Status) (*time.Time, error) {
	query := `
        SELECT MIN(start_at)
        FROM account_logs
        WHERE account_id = $1 AND log_type = $2 AND status = $3
    `
	var start *time.Time
	err := r.db.QueryRow(ctx, query, accountID, domain.LogTypeStatus, status).Scan(&start)
	if err != nil {
		zap.L().Error("can't get earliest status start", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	return start, nil
}

// ValueAt returns the interval of the dimension covering instant at, or nil.
func (r *Repository) ValueAt(ctx context.Context, accountID int, logType domain.LogType, at time.Time) (*domain.AccountLog, error) {
	query := `
        SELECT ` + logColumns + `
        FROM account_logs
        WHERE account_id = $1 AND log_type = $2
          AND start_at <= $3 AND (end_at IS NULL OR end_at > $3)
        ORDER BY start_at DESC, id DESC
        LIMIT 1
    `
	var l domain.AccountLog
	err := r.db.QueryRow(ctx, query, accountID, logType, at).
		Scan(&l.ID, &l.AccountID, &l.LogType, &l.StartAt, &l.EndAt, &l.Status, &l.ManagerID, &l.CardNumber, &l.ChangedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't get account log at instant", zap.Int("account_id", accountID), zap.Error(err))
		return nil, err
	}
	return &l, nil
}

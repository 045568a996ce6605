package accountlogrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
)

var (
	now     = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	columns = []string{"id", "account_id", "log_type", "start_at", "end_at", "status", "manager_id", "card_number", "changed_by"}
)

const lockQuery = "SELECT id FROM account_logs WHERE account_id = $1 AND log_type = $2 AND end_at IS NULL FOR UPDATE"

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	txManager := pg.NewMockTXManager(ctrl)
	return New(mockDB, txManager), mockDB, txManager
}

func inTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name      string
		entry     domain.AccountLog
		expectErr bool
	}{
		{name: "Status", entry: domain.AccountLog{LogType: domain.LogTypeStatus, Status: domain.StatusActive}},
		{name: "Status missing", entry: domain.AccountLog{LogType: domain.LogTypeStatus}, expectErr: true},
		{name: "Status unknown", entry: domain.AccountLog{LogType: domain.LogTypeStatus, Status: "GONE"}, expectErr: true},
		{name: "Card", entry: domain.AccountLog{LogType: domain.LogTypeCard, CardNumber: "4111111111111111"}},
		{name: "Card missing", entry: domain.AccountLog{LogType: domain.LogTypeCard}, expectErr: true},
		{name: "Manager unassigned", entry: domain.AccountLog{LogType: domain.LogTypeManager}},
		{name: "Unknown type", entry: domain.AccountLog{LogType: "COLOR"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(&tt.entry)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidDimensionPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_LogChange(t *testing.T) {
	repo, mock, txManager := NewMock(t)
	actor := 3

	tests := []struct {
		name      string
		entry     *domain.AccountLog
		mockSetup func()
		expectErr error
	}{
		{
			name:  "Closes open interval and opens the next",
			entry: &domain.AccountLog{AccountID: 42, LogType: domain.LogTypeStatus, Status: domain.StatusOnVerify, ChangedBy: &actor},
			mockSetup: func() {
				inTx(txManager)
				mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
					WithArgs(42, domain.LogTypeStatus).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))
				mock.ExpectExec(regexp.QuoteMeta("UPDATE account_logs SET end_at = $1 WHERE id = $2")).
					WithArgs(now, 7).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO account_logs")).
					WithArgs(42, domain.LogTypeStatus, now, domain.StatusOnVerify, (*int)(nil), "", &actor).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(8))
			},
		},
		{
			name:  "First interval of a dimension",
			entry: &domain.AccountLog{AccountID: 42, LogType: domain.LogTypeCard, CardNumber: "4111111111111111"},
			mockSetup: func() {
				inTx(txManager)
				mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
					WithArgs(42, domain.LogTypeCard).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO account_logs")).
					WithArgs(42, domain.LogTypeCard, now, domain.Status(""), (*int)(nil), "4111111111111111", (*int)(nil)).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(9))
			},
		},
		{
			name:      "Invalid payload never reaches the database",
			entry:     &domain.AccountLog{AccountID: 42, LogType: domain.LogTypeStatus},
			mockSetup: func() {},
			expectErr: ErrInvalidDimensionPayload,
		},
		{
			name:  "Lock failure",
			entry: &domain.AccountLog{AccountID: 42, LogType: domain.LogTypeStatus, Status: domain.StatusActive},
			mockSetup: func() {
				inTx(txManager)
				mock.ExpectQuery(regexp.QuoteMeta(lockQuery)).
					WithArgs(42, domain.LogTypeStatus).
					WillReturnError(pg.ErrConcurrentModification)
			},
			expectErr: pg.ErrConcurrentModification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.LogChange(context.Background(), tt.entry, now)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.entry.ID)
			assert.Equal(t, now, tt.entry.StartAt)
			assert.Nil(t, tt.entry.EndAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindLogs(t *testing.T) {
	repo, mock, _ := NewMock(t)
	end := now.Add(-time.Hour)

	rows := pgxmock.NewRows(columns).
		AddRow(1, 42, domain.LogTypeStatus, now.Add(-3*time.Hour), &end, domain.StatusSurfing, (*int)(nil), "", (*int)(nil)).
		AddRow(2, 42, domain.LogTypeStatus, end, (*time.Time)(nil), domain.StatusWarming, (*int)(nil), "", (*int)(nil))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1 AND log_type = $2 ORDER BY start_at ASC, id ASC")).
		WithArgs(42, domain.LogTypeStatus).
		WillReturnRows(rows)

	logs, err := repo.FindLogs(context.Background(), 42, domain.LogTypeStatus)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.False(t, logs[0].Open())
	assert.True(t, logs[1].Open())
	assert.Equal(t, 2*time.Hour, logs[0].Duration(now))

	mock.ExpectQuery(regexp.QuoteMeta("FROM account_logs")).
		WithArgs(42, domain.LogTypeStatus).
		WillReturnError(errors.New("database error"))
	_, err = repo.FindLogs(context.Background(), 42, domain.LogTypeStatus)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindLogsBetween(t *testing.T) {
	repo, mock, _ := NewMock(t)
	from := now.AddDate(0, 0, -7)

	mock.ExpectQuery(regexp.QuoteMeta("AND start_at < $4 AND (end_at IS NULL OR end_at > $3)")).
		WithArgs(42, domain.LogTypeStatus, from, now).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(1, 42, domain.LogTypeStatus, from.Add(-time.Hour), (*time.Time)(nil), domain.StatusActive, (*int)(nil), "", (*int)(nil)))

	logs, err := repo.FindLogsBetween(context.Background(), 42, domain.LogTypeStatus, from, now)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_EarliestStart(t *testing.T) {
	repo, mock, _ := NewMock(t)
	first := now.AddDate(0, 0, -3)

	tests := []struct {
		name      string
		mockSetup func()
		expected  *time.Time
		expectErr bool
	}{
		{
			name: "Entered before",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(start_at)")).
					WithArgs(42, domain.LogTypeStatus, domain.StatusSurfing).
					WillReturnRows(pgxmock.NewRows([]string{"min"}).AddRow(&first))
			},
			expected: &first,
		},
		{
			name: "Never entered",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(start_at)")).
					WithArgs(42, domain.LogTypeStatus, domain.StatusSurfing).
					WillReturnRows(pgxmock.NewRows([]string{"min"}).AddRow((*time.Time)(nil)))
			},
			expected: nil,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT MIN(start_at)")).
					WithArgs(42, domain.LogTypeStatus, domain.StatusSurfing).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			start, err := repo.EarliestStart(context.Background(), 42, domain.StatusSurfing)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, start)
		})
	}
}

func TestRepository_ValueAt(t *testing.T) {
	repo, mock, _ := NewMock(t)
	manager := 10
	at := now.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("AND start_at <= $3 AND (end_at IS NULL OR end_at > $3) ORDER BY start_at DESC, id DESC LIMIT 1")).
		WithArgs(42, domain.LogTypeManager, at).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(4, 42, domain.LogTypeManager, now.AddDate(0, 0, -1), (*time.Time)(nil), domain.Status(""), &manager, "", (*int)(nil)))
	l, err := repo.ValueAt(context.Background(), 42, domain.LogTypeManager, at)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, &manager, l.ManagerID)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 1")).
		WithArgs(42, domain.LogTypeManager, at).
		WillReturnError(pgx.ErrNoRows)
	l, err = repo.ValueAt(context.Background(), 42, domain.LogTypeManager, at)
	require.NoError(t, err)
	assert.Nil(t, l)

	assert.NoError(t, mock.ExpectationsWereMet())
}

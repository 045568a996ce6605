package accountservice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/metrics"
)

// cumulative statuses count every interval spent in them, not just the
// latest one.
func cumulative(status domain.Status) bool {
	return status == domain.StatusSurfing || status == domain.StatusWarming
}

// DurationIn is how long the timeline has been in status as of now. Open
// intervals are measured up to now.
func DurationIn(status domain.Status, logs []domain.AccountLog, now time.Time) time.Duration {
	if cumulative(status) {
		var total time.Duration
		for _, l := range logs {
			if l.Status == status {
				total += l.Duration(now)
			}
		}
		return total
	}
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Status == status {
			return logs[i].Duration(now)
		}
	}
	return 0
}

// StatusDuration reports how long the account has been in its current
// status.
func (s *Service) StatusDuration(ctx context.Context, accountID int, now time.Time) (time.Duration, error) {
	if d, ok := s.cache.Duration(ctx, accountID); ok {
		metrics.DurationCacheLookups.WithLabelValues("hit").Inc()
		return d, nil
	}
	metrics.DurationCacheLookups.WithLabelValues("miss").Inc()

	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	logs, err := s.logs.FindLogs(ctx, accountID, domain.LogTypeStatus)
	if err != nil {
		zap.L().Error("failed to get status logs", zap.Int("account_id", accountID), zap.Error(err))
		return 0, err
	}

	d := DurationIn(acc.Status, logs, now)
	s.cache.SetDuration(ctx, accountID, d)
	return d, nil
}

// PreviousStatus returns the status before the current one. ok is false when
// the account never changed status.
func (s *Service) PreviousStatus(ctx context.Context, accountID int) (status domain.Status, ok bool, err error) {
	if status, ok := s.cache.PreviousStatus(ctx, accountID); ok {
		return status, true, nil
	}

	logs, err := s.logs.FindLogs(ctx, accountID, domain.LogTypeStatus)
	if err != nil {
		zap.L().Error("failed to get status logs", zap.Int("account_id", accountID), zap.Error(err))
		return "", false, err
	}
	if len(logs) < 2 {
		return "", false, nil
	}
	status = logs[len(logs)-2].Status
	s.cache.SetPreviousStatus(ctx, accountID, status)
	return status, true, nil
}

// StatusInfo is the status view of one account.
type StatusInfo struct {
	Account        *domain.Account
	Duration       time.Duration
	PreviousStatus domain.Status
	Available      []domain.Status
}

func (s *Service) GetStatusInfo(ctx context.Context, accountID int, actor *domain.Actor, now time.Time) (*StatusInfo, error) {
	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	d, err := s.StatusDuration(ctx, accountID, now)
	if err != nil {
		return nil, err
	}
	prev, _, err := s.PreviousStatus(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &StatusInfo{
		Account:        acc,
		Duration:       d,
		PreviousStatus: prev,
		Available:      s.guard.Available(acc.Status, actor),
	}, nil
}

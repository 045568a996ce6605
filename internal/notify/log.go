package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/outbox"
)

// Log writes notify events to the application log. Used when no Telegram
// token is configured.
type Log struct{}

func (Log) Notify(_ context.Context, ev outbox.Event) error {
	zap.L().Info("notification",
		zap.String("event_id", ev.ID.String()),
		zap.Int("account_id", ev.AccountID),
		zap.Int("recipient_id", ev.RecipientID),
		zap.String("severity", string(ev.Severity)),
		zap.String("text", FormatEvent(ev)),
	)
	return nil
}

func (Log) Share(_ context.Context, ev outbox.Event) error {
	zap.L().Info("profile share skipped, no profile service configured",
		zap.String("event_id", ev.ID.String()),
		zap.Int("account_id", ev.AccountID),
		zap.Int("manager_id", ev.RecipientID),
	)
	return nil
}

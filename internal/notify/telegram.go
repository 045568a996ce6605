package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/outbox"
)

type UserFinder interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

// Sender is satisfied by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers notify events to the recipient's Telegram chat.
type Telegram struct {
	bot   Sender
	users UserFinder
}

func NewTelegram(bot Sender, users UserFinder) *Telegram {
	return &Telegram{bot: bot, users: users}
}

func (t *Telegram) Notify(ctx context.Context, ev outbox.Event) error {
	user, err := t.users.FindByID(ctx, ev.RecipientID)
	if err != nil {
		return fmt.Errorf("can't resolve recipient %d: %w", ev.RecipientID, err)
	}
	if user == nil || user.TelegramChatID == 0 {
		zap.L().Info("recipient has no telegram chat, skipping",
			zap.Int("recipient_id", ev.RecipientID),
			zap.String("event_id", ev.ID.String()),
		)
		return nil
	}

	msg := tgbotapi.NewMessage(user.TelegramChatID, FormatEvent(ev))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}

var severityMarks = map[outbox.Severity]string{
	outbox.SeverityInfo:     "ℹ️",
	outbox.SeverityWarning:  "⚠️",
	outbox.SeverityCritical: "🚨",
}

// FormatEvent renders an event as a plain text message.
func FormatEvent(ev outbox.Event) string {
	var b strings.Builder
	if mark, ok := severityMarks[ev.Severity]; ok {
		b.WriteString(mark)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "Account #%d: %s", ev.AccountID, ev.Category)

	keys := make([]string, 0, len(ev.Payload))
	for k := range ev.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s: %v", k, ev.Payload[k])
	}
	return b.String()
}

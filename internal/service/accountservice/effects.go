package accountservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/outbox"
)

const categoryStatus = "account_status"

type transition struct {
	acc     *domain.Account
	from    domain.Status
	comment string
	actor   *domain.Actor
	box     *outbox.Outbox
}

func (t transition) payload() map[string]any {
	p := map[string]any{
		"from": string(t.from),
		"to":   string(t.acc.Status),
	}
	if t.comment != "" {
		p["comment"] = t.comment
	}
	return p
}

func (t transition) notify(recipient *int, severity outbox.Severity) {
	if recipient == nil {
		return
	}
	t.box.Notify(t.acc.ID, *recipient, severity, categoryStatus, t.payload(), domain.ActorID(t.actor))
}

type effectFn func(ctx context.Context, s *Service, t transition)

// statusEffects holds what entering a status triggers. Targets without an
// entry fall back to notifyManager.
var statusEffects = map[domain.Status]effectFn{
	domain.StatusOnVerify: onVerify,
	domain.StatusLogout:   onLogout,
	domain.StatusBanned:   onBanned,
}

func (s *Service) runEffects(ctx context.Context, t transition) {
	effect, ok := statusEffects[t.acc.Status]
	if !ok {
		effect = notifyManager
	}
	effect(ctx, s, t)
}

func onVerify(_ context.Context, _ *Service, t transition) {
	t.notify(t.acc.ManagerID, outbox.SeverityCritical)
}

// onLogout drops the stored session credential: it is no longer valid once
// the platform logged the account out.
func onLogout(_ context.Context, _ *Service, t transition) {
	t.notify(t.acc.SupplierID, outbox.SeverityCritical)
	if t.actor == nil {
		t.notify(t.acc.ManagerID, outbox.SeverityInfo)
	}
	t.acc.Credential = ""
}

func onBanned(ctx context.Context, s *Service, t transition) {
	t.notify(t.acc.SupplierID, outbox.SeverityWarning)

	financiers, err := s.users.FindByRole(ctx, domain.RoleFinancier)
	if err != nil {
		zap.L().Error("failed to find financiers for ban notice", zap.Int("account_id", t.acc.ID), zap.Error(err))
		return
	}
	for _, f := range financiers {
		id := f.ID
		t.notify(&id, outbox.SeverityWarning)
	}
}

func notifyManager(_ context.Context, _ *Service, t transition) {
	if t.acc.ManagerID == nil {
		return
	}
	if t.actor != nil && t.actor.ID == *t.acc.ManagerID {
		return
	}
	t.notify(t.acc.ManagerID, outbox.SeverityInfo)
}

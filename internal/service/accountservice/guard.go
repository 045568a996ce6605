package accountservice

import (
	"errors"
	"fmt"

	"github.com/GlebRadaev/farmops/internal/domain"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError carries enough context for the caller to explain
// the refusal.
type IllegalTransitionError struct {
	From   domain.Status
	To     domain.Status
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s: %s", e.From, e.To, e.Reason)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// PermissionFn decides whether actor may leave the current status. A nil
// actor is the system.
type PermissionFn func(current domain.Status, actor *domain.Actor) bool

type rule struct {
	sources    map[domain.Status]struct{}
	permission PermissionFn
}

func from(statuses ...domain.Status) map[domain.Status]struct{} {
	set := make(map[domain.Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// bannedNeedsElevation lets any caller through except when the account is
// BANNED, which only admins and team leads may lift.
func bannedNeedsElevation(current domain.Status, actor *domain.Actor) bool {
	if current != domain.StatusBanned {
		return true
	}
	return actor != nil && actor.Role.Elevated()
}

// transitions maps each target status to the statuses it may be entered from.
var transitions = map[domain.Status]rule{
	domain.StatusNew: {
		sources:    from(domain.StatusSurfing, domain.StatusLogout, domain.StatusBanned),
		permission: bannedNeedsElevation,
	},
	domain.StatusSurfing: {
		sources: from(domain.StatusNew, domain.StatusLogout, domain.StatusOnVerify, domain.StatusSetup,
			domain.StatusInactive, domain.StatusBanned),
		permission: bannedNeedsElevation,
	},
	domain.StatusWarming: {
		sources: from(domain.StatusSurfing, domain.StatusLogout, domain.StatusOnVerify, domain.StatusSetup,
			domain.StatusInactive, domain.StatusBanned),
		permission: bannedNeedsElevation,
	},
	domain.StatusSetup: {
		sources: from(domain.StatusActive, domain.StatusLogout, domain.StatusOnVerify, domain.StatusInactive,
			domain.StatusWarming, domain.StatusReady, domain.StatusBanned, domain.StatusSetup),
		permission: bannedNeedsElevation,
	},
	domain.StatusReady: {
		sources: from(domain.StatusActive, domain.StatusLogout, domain.StatusOnVerify, domain.StatusInactive,
			domain.StatusWarming, domain.StatusSetup, domain.StatusBanned),
		permission: bannedNeedsElevation,
	},
	domain.StatusActive: {
		sources: from(domain.StatusLogout, domain.StatusOnVerify, domain.StatusInactive, domain.StatusReady,
			domain.StatusSetup, domain.StatusBanned, domain.StatusWarming),
		permission: bannedNeedsElevation,
	},
	domain.StatusInactive: {
		sources: from(domain.StatusLogout, domain.StatusOnVerify, domain.StatusActive, domain.StatusReady,
			domain.StatusSetup, domain.StatusBanned),
		permission: bannedNeedsElevation,
	},
	domain.StatusOnVerify: {
		sources: from(domain.StatusLogout, domain.StatusActive, domain.StatusInactive, domain.StatusWarming,
			domain.StatusReady, domain.StatusSetup, domain.StatusBanned, domain.StatusSurfing),
		permission: bannedNeedsElevation,
	},
	domain.StatusLogout: {
		sources: from(domain.StatusActive, domain.StatusInactive, domain.StatusSurfing, domain.StatusWarming,
			domain.StatusReady, domain.StatusSetup, domain.StatusNew, domain.StatusOnVerify, domain.StatusBanned,
			domain.StatusLogout),
		permission: bannedNeedsElevation,
	},
	domain.StatusBanned: {
		sources: from(domain.StatusLogout, domain.StatusActive, domain.StatusInactive, domain.StatusSurfing,
			domain.StatusWarming, domain.StatusReady, domain.StatusSetup, domain.StatusNew, domain.StatusOnVerify),
		permission: bannedNeedsElevation,
	},
}

type Guard struct {
	rules map[domain.Status]rule
}

func NewGuard() *Guard {
	return &Guard{rules: transitions}
}

// Check returns an *IllegalTransitionError when the move is not in the table
// or the actor lacks permission for it.
func (g *Guard) Check(current, target domain.Status, actor *domain.Actor) error {
	r, ok := g.rules[target]
	if !ok {
		return &IllegalTransitionError{From: current, To: target, Reason: "unknown target status"}
	}
	if _, ok := r.sources[current]; !ok {
		return &IllegalTransitionError{From: current, To: target, Reason: "not reachable from current status"}
	}
	if !r.permission(current, actor) {
		return &IllegalTransitionError{From: current, To: target, Reason: "actor role may not perform this transition"}
	}
	return nil
}

// Available lists the targets the actor may choose from current, in display
// order. READY is set by the system only and never offered, and neither is
// the current status since choosing it changes nothing.
func (g *Guard) Available(current domain.Status, actor *domain.Actor) []domain.Status {
	available := make([]domain.Status, 0, len(domain.Statuses))
	for _, target := range domain.Statuses {
		if target == domain.StatusReady || target == current {
			continue
		}
		if g.Check(current, target, actor) == nil {
			available = append(available, target)
		}
	}
	return available
}

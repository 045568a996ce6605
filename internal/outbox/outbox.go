// Package outbox collects side effects produced inside a transaction and
// hands them to a Dispatcher once the transaction has committed.
package outbox

import (
	"github.com/google/uuid"
)

type Kind string

const (
	KindNotify       Kind = "notify"
	KindShareProfile Kind = "share_profile"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is one deferred side effect. ID stays stable across delivery retries
// so receivers can drop duplicates.
type Event struct {
	ID          uuid.UUID
	Kind        Kind
	AccountID   int
	RecipientID int
	Severity    Severity
	Category    string
	Payload     map[string]any
	SenderID    *int
}

// Outbox is not safe for concurrent use; each operation owns its own.
type Outbox struct {
	events []Event
}

func New() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Notify(accountID, recipientID int, severity Severity, category string, payload map[string]any, senderID *int) {
	o.events = append(o.events, Event{
		ID:          uuid.New(),
		Kind:        KindNotify,
		AccountID:   accountID,
		RecipientID: recipientID,
		Severity:    severity,
		Category:    category,
		Payload:     payload,
		SenderID:    senderID,
	})
}

// ShareProfile asks the profile service to grant the account's browser
// profile to the new manager.
func (o *Outbox) ShareProfile(accountID, managerID int, senderID *int) {
	o.events = append(o.events, Event{
		ID:          uuid.New(),
		Kind:        KindShareProfile,
		AccountID:   accountID,
		RecipientID: managerID,
		Category:    "profile_share",
		SenderID:    senderID,
	})
}

func (o *Outbox) Events() []Event {
	return o.events
}

func (o *Outbox) Len() int {
	return len(o.events)
}

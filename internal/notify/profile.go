package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GlebRadaev/farmops/internal/outbox"
	"github.com/GlebRadaev/farmops/pkg/clients"
)

type shareRequest struct {
	EventID   string `json:"event_id"`
	AccountID int    `json:"account_id"`
	ManagerID int    `json:"manager_id"`
}

// ProfileSharer grants the account's browser profile to its new manager
// through the profile service.
type ProfileSharer struct {
	url       string
	healthURL string
	client    clients.HTTPClientI
}

func NewProfileSharer(address string, client clients.HTTPClientI) *ProfileSharer {
	return &ProfileSharer{
		url:       address + "/api/profiles/share",
		healthURL: address + "/healthz",
		client:    client,
	}
}

// Ready checks the profile service health endpoint. Share events queued
// while it is down are retried by the dispatcher, so callers only log the
// result.
func (p *ProfileSharer) Ready() error {
	status, _, _, err := p.client.Get(p.healthURL, http.Header{})
	if err != nil {
		return fmt.Errorf("profile service unreachable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("profile service health answered %d", status)
	}
	return nil
}

func (p *ProfileSharer) Share(_ context.Context, ev outbox.Event) error {
	body, err := json.Marshal(shareRequest{
		EventID:   ev.ID.String(),
		AccountID: ev.AccountID,
		ManagerID: ev.RecipientID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode share request: %w", err)
	}

	status, respBody, err := p.client.Post(p.url, nil, body)
	if err != nil {
		return fmt.Errorf("profile share request failed: %w", err)
	}
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("profile service answered %d: %s", status, string(respBody))
	}
}

// Package request holds the parsing helpers shared by the HTTP handlers.
package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/pkg/auth"
	"github.com/GlebRadaev/farmops/pkg/validate"
)

var (
	ErrInvalidBody = errors.New("invalid request body")
	ErrInvalidID   = errors.New("invalid id")
)

// Decode reads a JSON body into dst and checks its validate tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrInvalidBody
	}
	return validate.Struct(dst)
}

// IntParam parses a positive integer URL parameter.
func IntParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Actor is the authenticated caller, or nil when the request carries none.
func Actor(r *http.Request) *domain.Actor {
	userID, role, ok := auth.FromContext(r.Context())
	if !ok {
		return nil
	}
	return &domain.Actor{ID: userID, Role: domain.Role(role)}
}

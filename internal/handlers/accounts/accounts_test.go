package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/dto"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/internal/service/accountservice"
	"github.com/GlebRadaev/farmops/pkg/auth"
)

var fixedNow = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

var manager = &domain.Actor{ID: 10, Role: domain.RoleManager}

func NewMock(t *testing.T) (http.Handler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	handler.now = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), auth.UserIDKey, manager.ID)
			ctx = context.WithValue(ctx, auth.RoleKey, string(manager.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/api/accounts/{id}/status", handler.GetStatus)
	r.Post("/api/accounts/{id}/status", handler.ChangeStatus)
	r.Post("/api/accounts/{id}/manager", handler.ChangeManager)
	r.Post("/api/accounts/{id}/card", handler.ChangeCard)
	return r, service
}

func serve(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetStatusHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		url          string
		prepareMock  func()
		expectedCode int
		expectedBody *dto.StatusResponseDTO
	}{
		{
			name: "Successful retrieval",
			url:  "/api/accounts/42/status",
			prepareMock: func() {
				service.EXPECT().GetStatusInfo(gomock.Any(), 42, manager, fixedNow).Return(&accountservice.StatusInfo{
					Account: &domain.Account{
						ID:              42,
						Status:          domain.StatusActive,
						StatusChangedAt: fixedNow.Add(-time.Hour),
					},
					Duration:       time.Hour,
					PreviousStatus: domain.StatusSetup,
					Available:      []domain.Status{domain.StatusSetup, domain.StatusLogout},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.StatusResponseDTO{
				AccountID:       42,
				Status:          "ACTIVE",
				StatusChangedAt: fixedNow.Add(-time.Hour),
				DurationSeconds: 3600,
				PreviousStatus:  "SETUP",
				Available:       []string{"SETUP", "LOGOUT"},
			},
		},
		{
			name:         "Invalid id",
			url:          "/api/accounts/abc/status",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Account not found",
			url:  "/api/accounts/7/status",
			prepareMock: func() {
				service.EXPECT().GetStatusInfo(gomock.Any(), 7, manager, fixedNow).Return(nil, accountservice.ErrAccountNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rec := serve(handler, http.MethodGet, tt.url, "")
			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedBody != nil {
				var body dto.StatusResponseDTO
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, *tt.expectedBody, body)
			}
		})
	}
}

func TestChangeStatusHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful change",
			body: `{"status":"ON_VERIFY","comment":"checkpoint"}`,
			prepareMock: func() {
				service.EXPECT().ChangeStatus(gomock.Any(), 42, domain.StatusOnVerify, "checkpoint", manager, fixedNow).
					Return(&domain.Account{ID: 42, Status: domain.StatusOnVerify}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid body",
			body:         `{"status":`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Unknown status",
			body:         `{"status":"ARCHIVED"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Illegal transition",
			body: `{"status":"ACTIVE"}`,
			prepareMock: func() {
				service.EXPECT().ChangeStatus(gomock.Any(), 42, domain.StatusActive, "", manager, fixedNow).
					Return(nil, &accountservice.IllegalTransitionError{From: domain.StatusNew, To: domain.StatusActive, Reason: "not reachable"})
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Concurrent modification",
			body: `{"status":"SETUP"}`,
			prepareMock: func() {
				service.EXPECT().ChangeStatus(gomock.Any(), 42, domain.StatusSetup, "", manager, fixedNow).
					Return(nil, fmt.Errorf("lock: %w", pg.ErrConcurrentModification))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Internal error",
			body: `{"status":"SETUP"}`,
			prepareMock: func() {
				service.EXPECT().ChangeStatus(gomock.Any(), 42, domain.StatusSetup, "", manager, fixedNow).
					Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rec := serve(handler, http.MethodPost, "/api/accounts/42/status", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestChangeManagerHandler(t *testing.T) {
	handler, service := NewMock(t)
	newManager := 11

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Assign",
			body: `{"manager_id":11}`,
			prepareMock: func() {
				service.EXPECT().ChangeManager(gomock.Any(), 42, &newManager, manager, fixedNow).
					Return(&domain.Account{ID: 42, ManagerID: &newManager, Status: domain.StatusSurfing}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unassign",
			body: `{"manager_id":null}`,
			prepareMock: func() {
				service.EXPECT().ChangeManager(gomock.Any(), 42, gomock.Nil(), manager, fixedNow).
					Return(&domain.Account{ID: 42}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Negative manager id",
			body:         `{"manager_id":-3}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rec := serve(handler, http.MethodPost, "/api/accounts/42/manager", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestChangeCardHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Valid card",
			body: `{"card_number":"4111111111111111"}`,
			prepareMock: func() {
				service.EXPECT().ChangeCard(gomock.Any(), 42, "4111111111111111", manager, fixedNow).
					Return(&domain.Account{ID: 42, CardNumber: "4111111111111111"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Luhn failure",
			body:         `{"card_number":"4111111111111112"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Account not found",
			body: `{"card_number":"4111111111111111"}`,
			prepareMock: func() {
				service.EXPECT().ChangeCard(gomock.Any(), 42, "4111111111111111", manager, fixedNow).
					Return(nil, accountservice.ErrAccountNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rec := serve(handler, http.MethodPost, "/api/accounts/42/card", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

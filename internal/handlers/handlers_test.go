package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/service"
	"github.com/GlebRadaev/farmops/pkg/auth"
)

func TestNew(t *testing.T) {
	services := &service.Services{JWTService: auth.NewJWTService("secret")}

	h := New(services)
	assert.NotNil(t, h.AuthHandler)
	assert.NotNil(t, h.AccountHandler)
	assert.NotNil(t, h.PaymentHandler)
	assert.Equal(t, services.JWTService, h.Authenticator)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockAccountHandler := NewMockAccountHandler(ctrl)
	mockPaymentHandler := NewMockPaymentHandler(ctrl)

	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().CreateUser(gomock.Any(), gomock.Any()).AnyTimes()
	mockAccountHandler.EXPECT().GetStatus(gomock.Any(), gomock.Any()).AnyTimes()
	mockAccountHandler.EXPECT().ChangeStatus(gomock.Any(), gomock.Any()).AnyTimes()
	mockAccountHandler.EXPECT().ChangeManager(gomock.Any(), gomock.Any()).AnyTimes()
	mockAccountHandler.EXPECT().ChangeCard(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Quotes(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Settle(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().History(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().RecordStats(gomock.Any(), gomock.Any()).AnyTimes()

	jwtService := auth.NewJWTService("secret")
	h := &Handlers{
		AuthHandler:    mockAuthHandler,
		AccountHandler: mockAccountHandler,
		PaymentHandler: mockPaymentHandler,
		Authenticator:  jwtService,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	token := func(role domain.Role) string {
		tok, err := jwtService.GenerateJWT(1, string(role), time.Now().Add(time.Hour))
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		method string
		url    string
		role   domain.Role
		status int
	}{
		{"POST", "/api/user/login", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/api/accounts/1/status", "", http.StatusUnauthorized},
		{"GET", "/api/accounts/1/status", domain.RoleManager, http.StatusOK},
		{"POST", "/api/accounts/1/status", domain.RoleSupplier, http.StatusOK},
		{"POST", "/api/accounts/1/card", domain.RoleManager, http.StatusOK},
		{"POST", "/api/accounts/1/manager", domain.RoleManager, http.StatusForbidden},
		{"POST", "/api/accounts/1/manager", domain.RoleTeamLead, http.StatusOK},
		{"POST", "/api/users", domain.RoleTeamLead, http.StatusForbidden},
		{"POST", "/api/users", domain.RoleAdmin, http.StatusOK},
		{"GET", "/api/payments/quotes", domain.RoleManager, http.StatusForbidden},
		{"GET", "/api/payments/quotes", domain.RoleFinancier, http.StatusOK},
		{"POST", "/api/payments/settle", domain.RoleFinancier, http.StatusOK},
		{"GET", "/api/payments/history", domain.RoleAdmin, http.StatusOK},
		{"POST", "/api/stats", domain.RoleFinancier, http.StatusForbidden},
		{"POST", "/api/stats", domain.RoleTeamLead, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url+" "+string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+token(tt.role))
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/farmops/docs"
	"github.com/GlebRadaev/farmops/internal/domain"
	accounthandlers "github.com/GlebRadaev/farmops/internal/handlers/accounts"
	authhandlers "github.com/GlebRadaev/farmops/internal/handlers/auth"
	paymenthandlers "github.com/GlebRadaev/farmops/internal/handlers/payments"
	"github.com/GlebRadaev/farmops/internal/service"
	"github.com/GlebRadaev/farmops/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	ChangeStatus(w http.ResponseWriter, r *http.Request)
	ChangeManager(w http.ResponseWriter, r *http.Request)
	ChangeCard(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	Quotes(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	RecordStats(w http.ResponseWriter, r *http.Request)
}

type Authenticator interface {
	Middleware(next http.Handler) http.Handler
}

type Handlers struct {
	AuthHandler    AuthHandler
	AccountHandler AccountHandler
	PaymentHandler PaymentHandler
	Authenticator  Authenticator
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		AccountHandler: accounthandlers.New(s.AccountService),
		PaymentHandler: paymenthandlers.New(s.PaymentService),
		Authenticator:  s.JWTService,
	}
}

func roles(rs ...domain.Role) func(http.Handler) http.Handler {
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, string(r))
	}
	return auth.RequireRole(names...)
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticator.Middleware)

			r.With(roles(domain.RoleAdmin)).Post("/users", h.AuthHandler.CreateUser)

			r.Route("/accounts/{id}", func(r chi.Router) {
				r.Get("/status", h.AccountHandler.GetStatus)
				r.Post("/status", h.AccountHandler.ChangeStatus)
				r.Post("/card", h.AccountHandler.ChangeCard)
				r.With(roles(domain.RoleAdmin, domain.RoleTeamLead)).Post("/manager", h.AccountHandler.ChangeManager)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(roles(domain.RoleAdmin, domain.RoleFinancier))
				r.Get("/quotes", h.PaymentHandler.Quotes)
				r.Post("/settle", h.PaymentHandler.Settle)
				r.Get("/history", h.PaymentHandler.History)
			})

			r.With(roles(domain.RoleAdmin, domain.RoleTeamLead)).Post("/stats", h.PaymentHandler.RecordStats)
		})
	})

	return r
}

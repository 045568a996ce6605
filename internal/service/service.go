package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/GlebRadaev/farmops/internal/cache"
	"github.com/GlebRadaev/farmops/internal/config"
	"github.com/GlebRadaev/farmops/internal/repo"
	"github.com/GlebRadaev/farmops/internal/service/accountservice"
	"github.com/GlebRadaev/farmops/internal/service/authservice"
	"github.com/GlebRadaev/farmops/internal/service/paymentservice"
	pkgauth "github.com/GlebRadaev/farmops/pkg/auth"
)

type Services struct {
	AuthService    *authservice.Service
	AccountService *accountservice.Service
	PaymentService *paymentservice.Service
	JWTService     *pkgauth.JWTService
}

func New(cfg *config.Config, repo *repo.Repositories, accountCache cache.AccountCache, dispatcher accountservice.Dispatcher) *Services {
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)

	return &Services{
		AuthService: authservice.New(repo.Users, pkgauth.NewHashService(bcrypt.DefaultCost), jwtService, cfg.TokenTTL),
		AccountService: accountservice.New(
			repo.Accounts, repo.Logs, repo.Users, repo.TxManager, accountCache, dispatcher,
		),
		PaymentService: paymentservice.New(repo.Accounts, repo.Logs, repo.Payments, repo.DayStats, repo.TxManager),
		JWTService:     jwtService,
	}
}

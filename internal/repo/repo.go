package repo

import (
	"github.com/GlebRadaev/farmops/internal/notify"
	"github.com/GlebRadaev/farmops/internal/pg"
	accountrepo "github.com/GlebRadaev/farmops/internal/repo/account-repo"
	accountlogrepo "github.com/GlebRadaev/farmops/internal/repo/accountlog-repo"
	daystatrepo "github.com/GlebRadaev/farmops/internal/repo/daystat-repo"
	paymentrepo "github.com/GlebRadaev/farmops/internal/repo/payment-repo"
	userrepo "github.com/GlebRadaev/farmops/internal/repo/user-repo"
	"github.com/GlebRadaev/farmops/internal/service/accountservice"
	"github.com/GlebRadaev/farmops/internal/service/authservice"
	"github.com/GlebRadaev/farmops/internal/service/paymentservice"
)

type AccountRepo interface {
	accountservice.AccountRepo
	paymentservice.AccountRepo
}

type LogRepo interface {
	accountservice.LogRepo
	paymentservice.LogRepo
}

type UserRepo interface {
	authservice.Repo
	accountservice.UserRepo
	notify.UserFinder
}

type Repositories struct {
	Accounts  AccountRepo
	Logs      LogRepo
	Payments  paymentservice.PaymentRepo
	DayStats  paymentservice.DayStatRepo
	Users     UserRepo
	TxManager pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		Accounts:  accountrepo.New(conn, txManager),
		Logs:      accountlogrepo.New(conn, txManager),
		Payments:  paymentrepo.New(conn, txManager),
		DayStats:  daystatrepo.New(conn, txManager),
		Users:     userrepo.New(conn),
		TxManager: txManager,
	}
}

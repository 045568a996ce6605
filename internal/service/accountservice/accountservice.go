package accountservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/cache"
	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/metrics"
	"github.com/GlebRadaev/farmops/internal/outbox"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/pkg/validate"
)

//go:generate mockgen -source=accountservice.go -destination=mock_accountservice.go -package=accountservice

type AccountRepo interface {
	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	GetAccountForUpdate(ctx context.Context, id int) (*domain.Account, error)
	UpdateStatus(ctx context.Context, acc *domain.Account) error
	UpdateManager(ctx context.Context, acc *domain.Account) error
	UpdateCard(ctx context.Context, acc *domain.Account) error
	UnassignCampaigns(ctx context.Context, accountID int) (int64, error)
}

type LogRepo interface {
	LogChange(ctx context.Context, entry *domain.AccountLog, now time.Time) error
	FindLogs(ctx context.Context, accountID int, logType domain.LogType) ([]domain.AccountLog, error)
	EarliestStart(ctx context.Context, accountID int, status domain.Status) (*time.Time, error)
}

type UserRepo interface {
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type Dispatcher interface {
	Flush(events []outbox.Event)
}

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCardNumber = errors.New("invalid card number")
)

type Service struct {
	accounts   AccountRepo
	logs       LogRepo
	users      UserRepo
	txManager  pg.TXManager
	cache      cache.AccountCache
	dispatcher Dispatcher
	guard      *Guard
}

func New(
	accounts AccountRepo,
	logs LogRepo,
	users UserRepo,
	txManager pg.TXManager,
	accountCache cache.AccountCache,
	dispatcher Dispatcher,
) *Service {
	return &Service{
		accounts:   accounts,
		logs:       logs,
		users:      users,
		txManager:  txManager,
		cache:      accountCache,
		dispatcher: dispatcher,
		guard:      NewGuard(),
	}
}

func (s *Service) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	acc, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		zap.L().Error("failed to get account", zap.Int("account_id", id), zap.Error(err))
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

func (s *Service) lockAccount(ctx context.Context, id int) (*domain.Account, error) {
	acc, err := s.accounts.GetAccountForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// ChangeStatus moves the account to status. Setting the current status again
// is a no-op. Notifications are queued in the transaction and delivered only
// after it commits.
func (s *Service) ChangeStatus(
	ctx context.Context,
	accountID int,
	status domain.Status,
	comment string,
	actor *domain.Actor,
	now time.Time,
) (*domain.Account, error) {
	box := outbox.New()
	var acc *domain.Account
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		if acc, err = s.lockAccount(ctx, accountID); err != nil {
			return err
		}
		return s.applyStatus(ctx, acc, status, comment, actor, now, box)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Flush(box.Events())
	return acc, nil
}

// applyStatus runs on a locked account inside a transaction.
func (s *Service) applyStatus(
	ctx context.Context,
	acc *domain.Account,
	status domain.Status,
	comment string,
	actor *domain.Actor,
	now time.Time,
	box *outbox.Outbox,
) error {
	if acc.Status == status {
		return nil
	}
	previous := acc.Status
	if err := s.guard.Check(previous, status, actor); err != nil {
		metrics.IllegalTransitions.WithLabelValues(string(status)).Inc()
		zap.L().Warn("status transition refused",
			zap.Int("account_id", acc.ID), zap.String("from", string(previous)),
			zap.String("to", string(status)), zap.Error(err))
		return err
	}

	acc.Status = status
	acc.StatusComment = comment
	acc.StatusChangedAt = now

	entry := &domain.AccountLog{
		AccountID: acc.ID,
		LogType:   domain.LogTypeStatus,
		Status:    status,
		ChangedBy: domain.ActorID(actor),
	}
	if err := s.logs.LogChange(ctx, entry, now); err != nil {
		zap.L().Error("failed to log status change", zap.Int("account_id", acc.ID), zap.Error(err))
		return err
	}

	s.runEffects(ctx, transition{acc: acc, from: previous, comment: comment, actor: actor, box: box})

	if cumulative(status) {
		earliest, err := s.logs.EarliestStart(ctx, acc.ID, status)
		if err != nil {
			return err
		}
		if earliest != nil {
			acc.StatusChangedAt = *earliest
		}
	}

	if err := s.accounts.UpdateStatus(ctx, acc); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, acc.ID)

	metrics.StatusTransitions.WithLabelValues(string(previous), string(status)).Inc()
	zap.L().Info("account status changed",
		zap.Int("account_id", acc.ID), zap.String("from", string(previous)),
		zap.String("to", string(status)), zap.Intp("actor_id", domain.ActorID(actor)))
	return nil
}

func sameRef(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ChangeManager reassigns the account. Campaigns linked under the previous
// manager are unlinked. A NEW account that receives a manager starts SURFING
// in the same transaction.
func (s *Service) ChangeManager(
	ctx context.Context,
	accountID int,
	managerID *int,
	actor *domain.Actor,
	now time.Time,
) (*domain.Account, error) {
	box := outbox.New()
	var acc *domain.Account
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		if acc, err = s.lockAccount(ctx, accountID); err != nil {
			return err
		}
		if sameRef(acc.ManagerID, managerID) {
			return nil
		}

		unlinked, err := s.accounts.UnassignCampaigns(ctx, acc.ID)
		if err != nil {
			return err
		}

		entry := &domain.AccountLog{
			AccountID: acc.ID,
			LogType:   domain.LogTypeManager,
			ManagerID: managerID,
			ChangedBy: domain.ActorID(actor),
		}
		if err := s.logs.LogChange(ctx, entry, now); err != nil {
			zap.L().Error("failed to log manager change", zap.Int("account_id", acc.ID), zap.Error(err))
			return err
		}
		acc.ManagerID = managerID
		if err := s.accounts.UpdateManager(ctx, acc); err != nil {
			return err
		}
		zap.L().Info("account manager changed",
			zap.Int("account_id", acc.ID), zap.Intp("manager_id", managerID),
			zap.Int64("campaigns_unlinked", unlinked))

		if managerID == nil {
			return nil
		}
		if acc.Status == domain.StatusNew {
			if err := s.applyStatus(ctx, acc, domain.StatusSurfing, "", actor, now, box); err != nil {
				return err
			}
		}
		box.ShareProfile(acc.ID, *managerID, domain.ActorID(actor))
		box.Notify(acc.ID, *managerID, outbox.SeverityInfo, "account_assigned",
			map[string]any{"account": acc.Name}, domain.ActorID(actor))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Flush(box.Events())
	return acc, nil
}

// ChangeCard records a new payment card for the account after a Luhn check.
// Spaces and dashes in the number are ignored.
func (s *Service) ChangeCard(
	ctx context.Context,
	accountID int,
	cardNumber string,
	actor *domain.Actor,
	now time.Time,
) (*domain.Account, error) {
	cardNumber = validate.NormalizeCard(cardNumber)
	if !validate.IsLuna(cardNumber) {
		return nil, ErrInvalidCardNumber
	}

	var acc *domain.Account
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		if acc, err = s.lockAccount(ctx, accountID); err != nil {
			return err
		}
		if acc.CardNumber == cardNumber {
			return nil
		}
		entry := &domain.AccountLog{
			AccountID:  acc.ID,
			LogType:    domain.LogTypeCard,
			CardNumber: cardNumber,
			ChangedBy:  domain.ActorID(actor),
		}
		if err := s.logs.LogChange(ctx, entry, now); err != nil {
			zap.L().Error("failed to log card change", zap.Int("account_id", acc.ID), zap.Error(err))
			return err
		}
		acc.CardNumber = cardNumber
		return s.accounts.UpdateCard(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// AvailableStatuses lists the statuses the actor may move the account to.
func (s *Service) AvailableStatuses(ctx context.Context, accountID int, actor *domain.Actor) ([]domain.Status, error) {
	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.guard.Available(acc.Status, actor), nil
}

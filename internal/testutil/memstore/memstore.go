// Package memstore is an in-memory stand-in for the Postgres repositories
// used by service tests. Transactions are serialized and roll back by
// restoring a snapshot, which is enough to observe the locking and atomicity
// the services rely on.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/pg"
	accountlogrepo "github.com/GlebRadaev/farmops/internal/repo/accountlog-repo"
)

var ErrInjected = errors.New("injected failure")

type paymentKey struct {
	accountID int
	date      time.Time
}

type statKey struct {
	date       time.Time
	accountID  int
	userID     int
	campaignID int
}

type campaign struct {
	id        int
	accountID *int
	createdAt time.Time
}

type data struct {
	accounts  map[int]domain.Account
	logs      []domain.AccountLog
	payments  map[paymentKey]domain.AccountPayment
	stats     map[statKey]domain.DayStat
	campaigns []campaign
	nextID    int
	writes    int
}

func (d *data) clone() data {
	c := data{
		accounts:  make(map[int]domain.Account, len(d.accounts)),
		logs:      append([]domain.AccountLog(nil), d.logs...),
		payments:  make(map[paymentKey]domain.AccountPayment, len(d.payments)),
		stats:     make(map[statKey]domain.DayStat, len(d.stats)),
		campaigns: append([]campaign(nil), d.campaigns...),
		nextID:    d.nextID,
		writes:    d.writes,
	}
	for k, v := range d.accounts {
		c.accounts[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.stats {
		c.stats[k] = v
	}
	return c
}

type txKey struct{}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    data

	users    []domain.User
	failLock map[int]error
}

var _ pg.TXManager = (*Store)(nil)

func New() *Store {
	return &Store{
		d: data{
			accounts: make(map[int]domain.Account),
			payments: make(map[paymentKey]domain.AccountPayment),
			stats:    make(map[statKey]domain.DayStat),
			nextID:   1,
		},
		failLock: make(map[int]error),
	}
}

// Begin runs fn exclusively. Nested calls join the outer transaction.
func (s *Store) Begin(ctx context.Context, fn pg.TransactionalFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) id() int {
	id := s.d.nextID
	s.d.nextID++
	return id
}

// Seed helpers.

func (s *Store) AddAccount(acc domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.accounts[acc.ID] = acc
}

func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// AddLog appends a prepared interval as is.
func (s *Store) AddLog(l domain.AccountLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	s.d.logs = append(s.d.logs, l)
}

func (s *Store) AddCampaign(accountID int, createdAt time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	acc := accountID
	s.d.campaigns = append(s.d.campaigns, campaign{id: id, accountID: &acc, createdAt: createdAt})
	return id
}

// FailLock makes GetAccountForUpdate fail for the account.
func (s *Store) FailLock(accountID int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLock[accountID] = err
}

// Inspection helpers.

func (s *Store) Account(id int) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.accounts[id]
}

func (s *Store) Logs(accountID int, logType domain.LogType) []domain.AccountLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logsLocked(accountID, logType)
}

func (s *Store) Payments(accountID int) []domain.AccountPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AccountPayment
	for _, p := range s.d.payments {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *Store) Stats() []domain.DayStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DayStat, 0, len(s.d.stats))
	for _, st := range s.d.stats {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

func (s *Store) LinkedCampaigns(accountID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.d.campaigns {
		if c.accountID != nil && *c.accountID == accountID {
			n++
		}
	}
	return n
}

// Writes counts every mutating call that committed.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.writes
}

// Accounts.

func (s *Store) GetAccount(_ context.Context, id int) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.d.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (s *Store) GetAccountForUpdate(ctx context.Context, id int) (*domain.Account, error) {
	s.mu.Lock()
	err := s.failLock[id]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, id)
}

func (s *Store) FindBillable(_ context.Context, supplierID *int) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Account
	for _, acc := range s.d.accounts {
		if !acc.Price.IsPositive() {
			continue
		}
		if supplierID != nil && (acc.SupplierID == nil || *acc.SupplierID != *supplierID) {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) update(acc *domain.Account, apply func(stored *domain.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.d.accounts[acc.ID]
	if !ok {
		return errors.New("account row missing")
	}
	apply(&stored)
	s.d.accounts[acc.ID] = stored
	s.d.writes++
	return nil
}

func (s *Store) UpdateStatus(_ context.Context, acc *domain.Account) error {
	return s.update(acc, func(stored *domain.Account) {
		stored.Status = acc.Status
		stored.StatusComment = acc.StatusComment
		stored.StatusChangedAt = acc.StatusChangedAt
		stored.Credential = acc.Credential
	})
}

func (s *Store) UpdateManager(_ context.Context, acc *domain.Account) error {
	return s.update(acc, func(stored *domain.Account) { stored.ManagerID = acc.ManagerID })
}

func (s *Store) UpdateCard(_ context.Context, acc *domain.Account) error {
	return s.update(acc, func(stored *domain.Account) { stored.CardNumber = acc.CardNumber })
}

func (s *Store) UpdateBilling(_ context.Context, acc *domain.Account) error {
	return s.update(acc, func(stored *domain.Account) {
		stored.TotalPaid = acc.TotalPaid
		stored.PaidTill = acc.PaidTill
	})
}

func (s *Store) UnassignCampaigns(_ context.Context, accountID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i, c := range s.d.campaigns {
		if c.accountID != nil && *c.accountID == accountID {
			s.d.campaigns[i].accountID = nil
			n++
		}
	}
	s.d.writes++
	return n, nil
}

func (s *Store) PrimaryCampaign(_ context.Context, accountID int) (*int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *campaign
	for i, c := range s.d.campaigns {
		if c.accountID == nil || *c.accountID != accountID {
			continue
		}
		if best == nil || c.createdAt.Before(best.createdAt) {
			best = &s.d.campaigns[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	id := best.id
	return &id, nil
}

// Account logs.

func (s *Store) logsLocked(accountID int, logType domain.LogType) []domain.AccountLog {
	var out []domain.AccountLog
	for _, l := range s.d.logs {
		if l.AccountID == accountID && l.LogType == logType {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

func (s *Store) LogChange(_ context.Context, entry *domain.AccountLog, now time.Time) error {
	if err := accountlogrepo.ValidatePayload(entry); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.d.logs {
		if l.AccountID == entry.AccountID && l.LogType == entry.LogType && l.EndAt == nil {
			end := now
			s.d.logs[i].EndAt = &end
		}
	}
	entry.ID = s.id()
	entry.StartAt = now
	entry.EndAt = nil
	s.d.logs = append(s.d.logs, *entry)
	s.d.writes++
	return nil
}

func (s *Store) FindLogs(_ context.Context, accountID int, logType domain.LogType) ([]domain.AccountLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logsLocked(accountID, logType), nil
}

func (s *Store) FindLogsBetween(_ context.Context, accountID int, logType domain.LogType, from, to time.Time) ([]domain.AccountLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AccountLog
	for _, l := range s.logsLocked(accountID, logType) {
		if l.StartAt.Before(to) && (l.EndAt == nil || l.EndAt.After(from)) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) EarliestStart(_ context.Context, accountID int, status domain.Status) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logsLocked(accountID, domain.LogTypeStatus) {
		if l.Status == status {
			start := l.StartAt
			return &start, nil
		}
	}
	return nil, nil
}

func (s *Store) ValueAt(_ context.Context, accountID int, logType domain.LogType, at time.Time) (*domain.AccountLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.logsLocked(accountID, logType)
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		if !l.StartAt.After(at) && (l.EndAt == nil || l.EndAt.After(at)) {
			return &l, nil
		}
	}
	return nil, nil
}

// Users.

func (s *Store) FindByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Login == login {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.id()
	s.users = append(s.users, *user)
	return user, nil
}

// Payments.

func (s *Store) Upsert(_ context.Context, payment *domain.AccountPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := paymentKey{accountID: payment.AccountID, date: domain.Day(payment.Date)}
	if existing, ok := s.d.payments[key]; ok {
		payment.ID = existing.ID
	} else {
		payment.ID = s.id()
	}
	s.d.payments[key] = *payment
	s.d.writes++
	return nil
}

func (s *Store) SumUSD(_ context.Context, accountID int) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, p := range s.d.payments {
		if p.AccountID == accountID {
			total = total.Add(p.AmountUSD)
		}
	}
	return total, nil
}

func (s *Store) History(_ context.Context, from, to time.Time) ([]domain.PaymentDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make(map[time.Time]*domain.PaymentDay)
	accounts := make(map[time.Time]map[int]struct{})
	for _, p := range s.d.payments {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		day, ok := days[p.Date]
		if !ok {
			day = &domain.PaymentDay{Date: p.Date, AmountUSD: decimal.Zero, AmountUAH: decimal.Zero}
			days[p.Date] = day
			accounts[p.Date] = make(map[int]struct{})
		}
		day.AmountUSD = day.AmountUSD.Add(p.AmountUSD)
		day.AmountUAH = day.AmountUAH.Add(p.AmountUAH)
		accounts[p.Date][p.AccountID] = struct{}{}
	}
	out := make([]domain.PaymentDay, 0, len(days))
	for date, day := range days {
		day.Accounts = len(accounts[date])
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Day stats.

func keyOf(stat *domain.DayStat) statKey {
	return statKey{
		date:       domain.Day(stat.Date),
		accountID:  stat.AccountID,
		userID:     domain.RefOrNone(stat.UserID),
		campaignID: domain.RefOrNone(stat.CampaignID),
	}
}

func profit(st domain.DayStat) decimal.Decimal {
	return st.Revenue.Sub(st.Spend).Sub(st.Payment)
}

func (s *Store) AddCounters(_ context.Context, stat *domain.DayStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(stat)
	row, ok := s.d.stats[key]
	if !ok {
		row = domain.DayStat{Date: key.date, AccountID: stat.AccountID, UserID: stat.UserID, CampaignID: stat.CampaignID}
	}
	row.Spend = row.Spend.Add(stat.Spend)
	row.Revenue = row.Revenue.Add(stat.Revenue)
	row.Leads += stat.Leads
	row.Clicks += stat.Clicks
	row.Profit = profit(row)
	s.d.stats[key] = row
	s.d.writes++
	*stat = row
	return nil
}

func (s *Store) SetPayment(_ context.Context, stat *domain.DayStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(stat)
	row, ok := s.d.stats[key]
	if !ok {
		row = domain.DayStat{Date: key.date, AccountID: stat.AccountID, UserID: stat.UserID, CampaignID: stat.CampaignID}
	}
	row.Payment = stat.Payment
	row.Profit = profit(row)
	s.d.stats[key] = row
	s.d.writes++
	*stat = row
	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew      Status = "NEW"
	StatusSurfing  Status = "SURFING"
	StatusWarming  Status = "WARMING"
	StatusSetup    Status = "SETUP"
	StatusReady    Status = "READY"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusOnVerify Status = "ON_VERIFY"
	StatusLogout   Status = "LOGOUT"
	StatusBanned   Status = "BANNED"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusNew,
	StatusSurfing,
	StatusWarming,
	StatusSetup,
	StatusReady,
	StatusActive,
	StatusInactive,
	StatusOnVerify,
	StatusLogout,
	StatusBanned,
}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// LogType discriminates the dimension an account log row belongs to.
type LogType string

const (
	LogTypeStatus  LogType = "STATUS"
	LogTypeManager LogType = "MANAGER"
	LogTypeCard    LogType = "CARD"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTeamLead  Role = "teamlead"
	RoleManager   Role = "manager"
	RoleSupplier  Role = "supplier"
	RoleFinancier Role = "financier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeamLead, RoleManager, RoleSupplier, RoleFinancier:
		return true
	}
	return false
}

// Elevated reports whether the role may move accounts out of BANNED.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleTeamLead
}

type User struct {
	ID             int       `db:"id"`
	Login          string    `db:"login"`
	PasswordHash   string    `db:"password_hash"`
	Role           Role      `db:"role"`
	TelegramChatID int64     `db:"telegram_chat_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// Actor is the user performing a mutation. A nil *Actor means the change is
// initiated by the system.
type Actor struct {
	ID   int
	Role Role
}

// ActorID returns the actor id or nil for system changes.
func ActorID(a *Actor) *int {
	if a == nil {
		return nil
	}
	id := a.ID
	return &id
}

type Account struct {
	ID              int             `db:"id"`
	Name            string          `db:"name"`
	Status          Status          `db:"status"`
	StatusComment   string          `db:"status_comment"`
	StatusChangedAt time.Time       `db:"status_changed_at"`
	ManagerID       *int            `db:"manager_id"`
	SupplierID      *int            `db:"supplier_id"`
	CreatedByID     *int            `db:"created_by_id"`
	CardNumber      string          `db:"card_number"`
	Credential      string          `db:"credential"`
	Price           decimal.Decimal `db:"price"`
	TotalPaid       decimal.Decimal `db:"total_paid"`
	PaidTill        *time.Time      `db:"paid_till"`
	TotalFunds      decimal.Decimal `db:"total_funds"`
	FundsWait       decimal.Decimal `db:"funds_wait"`
	CreatedAt       time.Time       `db:"created_at"`
}

// BillingStart is the instant billing resumes from: the paid-till watermark,
// or creation time for accounts never paid.
func (a *Account) BillingStart() time.Time {
	if a.PaidTill != nil {
		return *a.PaidTill
	}
	return a.CreatedAt
}

// AccountLog is one interval of a dimension. EndAt is nil while open.
type AccountLog struct {
	ID         int        `db:"id"`
	AccountID  int        `db:"account_id"`
	LogType    LogType    `db:"log_type"`
	StartAt    time.Time  `db:"start_at"`
	EndAt      *time.Time `db:"end_at"`
	Status     Status     `db:"status"`
	ManagerID  *int       `db:"manager_id"`
	CardNumber string     `db:"card_number"`
	ChangedBy  *int       `db:"changed_by"`
}

// Open reports whether the interval has not been closed yet.
func (l AccountLog) Open() bool {
	return l.EndAt == nil
}

// Duration is the interval length, measuring open intervals against now.
func (l AccountLog) Duration(now time.Time) time.Duration {
	end := now
	if l.EndAt != nil {
		end = *l.EndAt
	}
	if end.Before(l.StartAt) {
		return 0
	}
	return end.Sub(l.StartAt)
}

type AccountPayment struct {
	ID        int             `db:"id"`
	AccountID int             `db:"account_id"`
	Date      time.Time       `db:"date"`
	AmountUSD decimal.Decimal `db:"amount_usd"`
	AmountUAH decimal.Decimal `db:"amount_uah"`
}

// PaymentDay is one row of the payment history aggregation.
type PaymentDay struct {
	Date      time.Time       `db:"date"`
	AmountUSD decimal.Decimal `db:"amount_usd"`
	AmountUAH decimal.Decimal `db:"amount_uah"`
	Accounts  int             `db:"accounts"`
}

// DayStat is the per (date, account, user, campaign) counter row. Nil user or
// campaign are stored as NoRef so the composite key stays unique.
type DayStat struct {
	Date       time.Time       `db:"date"`
	AccountID  int             `db:"account_id"`
	UserID     *int            `db:"user_id"`
	CampaignID *int            `db:"campaign_id"`
	Spend      decimal.Decimal `db:"spend"`
	Revenue    decimal.Decimal `db:"revenue"`
	Leads      int             `db:"leads"`
	Clicks     int             `db:"clicks"`
	Payment    decimal.Decimal `db:"payment"`
	Profit     decimal.Decimal `db:"profit"`
}

// NoRef is the stored value of an absent user or campaign in day stats.
const NoRef = -1

// RefOrNone normalizes an optional reference for the day-stat key.
func RefOrNone(id *int) int {
	if id == nil {
		return NoRef
	}
	return *id
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

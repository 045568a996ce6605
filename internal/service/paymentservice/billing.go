package paymentservice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/farmops/internal/domain"
)

const (
	day = 24 * time.Hour

	// Prices are weekly.
	daysPerPrice = 7
)

var sevenDays = decimal.NewFromInt(daysPerPrice)

// Billing is the amount owed for one account over a window.
type Billing struct {
	AccountID        int
	From             time.Time
	To               time.Time
	BillableDuration time.Duration
	Days             int64
	DayPrice         decimal.Decimal
	Amount           decimal.Decimal
	PaidTill         time.Time
}

func hold(status domain.Status) bool {
	return status == domain.StatusLogout || status == domain.StatusOnVerify
}

// Billable reports whether time spent in the interval is charged. BANNED is
// never charged and neither is a LOGOUT that has not ended. LOGOUT and
// ON_VERIFY holds are charged only while their whole span stays within a day.
func Billable(l domain.AccountLog, now time.Time) bool {
	switch {
	case l.Status == domain.StatusBanned:
		return false
	case l.Status == domain.StatusLogout && l.Open():
		return false
	case hold(l.Status) && l.Duration(now) > day:
		return false
	}
	return true
}

// BillingPeriods computes the charge for acc over [windowStart, windowEnd].
// Billing never reaches back before the account's paid-till watermark and
// never runs past the new one. The charge is whole days, rounded up.
func BillingPeriods(acc *domain.Account, logs []domain.AccountLog, windowStart, windowEnd, now time.Time) Billing {
	start := windowStart
	if bs := acc.BillingStart(); bs.After(start) {
		start = bs
	}
	b := Billing{
		AccountID: acc.ID,
		From:      start,
		To:        windowEnd,
		DayPrice:  acc.Price.DivRound(sevenDays, 2),
		Amount:    decimal.Zero,
		PaidTill:  EffectivePaidTill(logs, windowEnd),
	}
	if b.PaidTill.Before(start) {
		b.PaidTill = start
	}
	// The charge stops where the watermark stops: a hold still covering the
	// cutoff is billed in the cycle that moves past it.
	end := windowEnd
	if b.PaidTill.Before(end) {
		end = b.PaidTill
	}
	if !start.Before(end) {
		return b
	}

	for _, l := range logs {
		if !Billable(l, now) {
			continue
		}
		from := l.StartAt
		if from.Before(start) {
			from = start
		}
		to := end
		if l.EndAt != nil && l.EndAt.Before(to) {
			to = *l.EndAt
		}
		if l.EndAt == nil && now.Before(to) {
			to = now
		}
		if to.After(from) {
			b.BillableDuration += to.Sub(from)
		}
	}

	b.Days = int64(b.BillableDuration / day)
	if b.BillableDuration%day != 0 {
		b.Days++
	}
	b.Amount = acc.Price.Mul(decimal.NewFromInt(b.Days)).DivRound(sevenDays, 2)
	return b
}

// EffectivePaidTill moves cutoff back to the start of the ON_VERIFY or LOGOUT
// hold covering it, and keeps walking while holds chain back to back.
func EffectivePaidTill(logs []domain.AccountLog, cutoff time.Time) time.Time {
	t := cutoff
	for {
		covering := coveringHold(logs, t)
		if covering == nil {
			return t
		}
		t = covering.StartAt
	}
}

func coveringHold(logs []domain.AccountLog, t time.Time) *domain.AccountLog {
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		if !hold(l.Status) || !l.StartAt.Before(t) {
			continue
		}
		if l.EndAt == nil || !l.EndAt.Before(t) {
			return &logs[i]
		}
	}
	return nil
}

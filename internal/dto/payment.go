package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettleEntryDTO struct {
	AccountID int             `json:"account_id" validate:"required,gt=0" example:"42"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"4100"`
}

type SettleRequestDTO struct {
	Rate    decimal.Decimal  `json:"rate" swaggertype:"string" example:"41"`
	PayTill time.Time        `json:"pay_till" validate:"required" example:"2024-10-08T00:00:00Z"`
	Entries []SettleEntryDTO `json:"entries" validate:"required,min=1,dive"`
}

type SettleResultDTO struct {
	AccountID int             `json:"account_id" example:"42"`
	TotalPaid decimal.Decimal `json:"total_paid" swaggertype:"string" example:"100"`
	PaidTill  *time.Time      `json:"paid_till,omitempty" example:"2024-10-08T00:00:00Z"`
	Error     string          `json:"error,omitempty"`
}

type QuoteDTO struct {
	AccountID       int             `json:"account_id" example:"42"`
	From            time.Time       `json:"from" example:"2024-10-01T00:00:00Z"`
	To              time.Time       `json:"to" example:"2024-10-08T00:00:00Z"`
	BillableSeconds int64           `json:"billable_seconds" example:"604800"`
	Days            int64           `json:"days" example:"7"`
	DayPrice        decimal.Decimal `json:"day_price" swaggertype:"string" example:"10"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"70"`
	PaidTill        time.Time       `json:"paid_till" example:"2024-10-08T00:00:00Z"`
}

type PaymentDayDTO struct {
	Date      string          `json:"date" example:"2024-10-02"`
	AmountUSD decimal.Decimal `json:"amount_usd" swaggertype:"string" example:"100"`
	AmountUAH decimal.Decimal `json:"amount_uah" swaggertype:"string" example:"4100"`
	Accounts  int             `json:"accounts" example:"3"`
}

type DayStatDTO struct {
	Date       string          `json:"date" validate:"required,datetime=2006-01-02" example:"2024-10-02"`
	AccountID  int             `json:"account_id" validate:"required,gt=0" example:"42"`
	UserID     *int            `json:"user_id,omitempty" example:"10"`
	CampaignID *int            `json:"campaign_id,omitempty" example:"5"`
	Spend      decimal.Decimal `json:"spend" swaggertype:"string" example:"12.5"`
	Revenue    decimal.Decimal `json:"revenue" swaggertype:"string" example:"40"`
	Leads      int             `json:"leads" validate:"gte=0" example:"3"`
	Clicks     int             `json:"clicks" validate:"gte=0" example:"120"`
	Payment    decimal.Decimal `json:"payment" swaggertype:"string" example:"0"`
	Profit     decimal.Decimal `json:"profit" swaggertype:"string" example:"27.5"`
}

type RecordStatsRequestDTO struct {
	Stats []DayStatDTO `json:"stats" validate:"required,min=1,dive"`
}

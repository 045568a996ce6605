package payments

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/dto"
	"github.com/GlebRadaev/farmops/internal/handlers/request"
	"github.com/GlebRadaev/farmops/internal/service/paymentservice"
	"github.com/GlebRadaev/farmops/pkg/utils"
)

//go:generate mockgen -source=payments.go -destination=mock_payments.go -package=payments

type Service interface {
	Settle(ctx context.Context, entries []paymentservice.SettleEntry, rate decimal.Decimal, payTill time.Time, actor *domain.Actor, now time.Time) ([]paymentservice.SettleResult, error)
	Quotes(ctx context.Context, cutoff time.Time, supplierID *int, now time.Time) ([]paymentservice.Billing, error)
	History(ctx context.Context, from, to time.Time) ([]domain.PaymentDay, error)
	RecordDayStats(ctx context.Context, stats []domain.DayStat) ([]domain.DayStat, error)
}

const dateLayout = "2006-01-02"

type PaymentHandler struct {
	paymentService Service
	now            func() time.Time
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		now:            time.Now,
	}
}

// Quotes godoc
//
//	@Summary		Quote owed amounts
//	@Description	Computes the amount every billable account owes up to the cutoff.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			cutoff		query		string	false	"RFC3339 cutoff, defaults to now"
//	@Param			supplier_id	query		int		false	"Only accounts of this supplier"
//	@Success		200			{array}		dto.QuoteDTO
//	@Failure		400			{object}	utils.Response	"Invalid query"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		403			{object}	utils.Response	"Forbidden"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/quotes [get]
func (h *PaymentHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	cutoff := now
	if raw := r.URL.Query().Get("cutoff"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid cutoff")
			return
		}
		cutoff = parsed
	}
	var supplierID *int
	if raw := r.URL.Query().Get("supplier_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid supplier id")
			return
		}
		supplierID = &id
	}

	quotes, err := h.paymentService.Quotes(r.Context(), cutoff, supplierID, now)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp := make([]dto.QuoteDTO, 0, len(quotes))
	for _, q := range quotes {
		resp = append(resp, dto.QuoteDTO{
			AccountID:       q.AccountID,
			From:            q.From,
			To:              q.To,
			BillableSeconds: int64(q.BillableDuration / time.Second),
			Days:            q.Days,
			DayPrice:        q.DayPrice,
			Amount:          q.Amount,
			PaidTill:        q.PaidTill,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Settle godoc
//
//	@Summary		Settle payments
//	@Description	Records a batch of payments. Every account is settled on its own; per-account failures are reported in the result.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SettleRequestDTO	true	"Payments batch"
//	@Success		200		{array}		dto.SettleResultDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		422		{object}	utils.Response	"Invalid exchange rate"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/settle [post]
func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entries := make([]paymentservice.SettleEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, paymentservice.SettleEntry{AccountID: e.AccountID, Amount: e.Amount})
	}

	results, err := h.paymentService.Settle(r.Context(), entries, req.Rate, req.PayTill, request.Actor(r), h.now())
	if errors.Is(err, paymentservice.ErrInvalidRate) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.SettleResultDTO, 0, len(results))
	for _, res := range results {
		item := dto.SettleResultDTO{AccountID: res.AccountID, TotalPaid: res.TotalPaid}
		if res.Err != nil {
			item.Error = res.Err.Error()
		} else {
			paidTill := res.PaidTill
			item.PaidTill = &paidTill
		}
		resp = append(resp, item)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// History godoc
//
//	@Summary		Payment history
//	@Description	Daily payment totals between two dates, inclusive.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			from	query		string	true	"First day, YYYY-MM-DD"
//	@Param			to		query		string	true	"Last day, YYYY-MM-DD"
//	@Success		200		{array}		dto.PaymentDayDTO
//	@Failure		400		{object}	utils.Response	"Invalid period"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/history [get]
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	from, errFrom := time.Parse(dateLayout, r.URL.Query().Get("from"))
	to, errTo := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if errFrom != nil || errTo != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid period")
		return
	}

	days, err := h.paymentService.History(r.Context(), from, to)
	if errors.Is(err, paymentservice.ErrInvalidPeriod) {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.PaymentDayDTO, 0, len(days))
	for _, d := range days {
		resp = append(resp, dto.PaymentDayDTO{
			Date:      d.Date.Format(dateLayout),
			AmountUSD: d.AmountUSD,
			AmountUAH: d.AmountUAH,
			Accounts:  d.Accounts,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// RecordStats godoc
//
//	@Summary		Record day statistics
//	@Description	Adds spend, revenue, leads and clicks to the per-day counters. Repeated rows add up.
//	@Tags			Stats
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RecordStatsRequestDTO	true	"Counters"
//	@Success		200		{array}		dto.DayStatDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/stats [post]
func (h *PaymentHandler) RecordStats(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordStatsRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	stats := make([]domain.DayStat, 0, len(req.Stats))
	for _, s := range req.Stats {
		date, err := time.Parse(dateLayout, s.Date)
		if err != nil || s.Spend.IsNegative() || s.Revenue.IsNegative() {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		stats = append(stats, domain.DayStat{
			Date:       date,
			AccountID:  s.AccountID,
			UserID:     s.UserID,
			CampaignID: s.CampaignID,
			Spend:      s.Spend,
			Revenue:    s.Revenue,
			Leads:      s.Leads,
			Clicks:     s.Clicks,
		})
	}

	recorded, err := h.paymentService.RecordDayStats(r.Context(), stats)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp := make([]dto.DayStatDTO, 0, len(recorded))
	for _, s := range recorded {
		resp = append(resp, dto.DayStatDTO{
			Date:       s.Date.Format(dateLayout),
			AccountID:  s.AccountID,
			UserID:     s.UserID,
			CampaignID: s.CampaignID,
			Spend:      s.Spend,
			Revenue:    s.Revenue,
			Leads:      s.Leads,
			Clicks:     s.Clicks,
			Payment:    s.Payment,
			Profit:     s.Profit,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

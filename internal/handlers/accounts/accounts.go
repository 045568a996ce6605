package accounts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/dto"
	"github.com/GlebRadaev/farmops/internal/handlers/request"
	"github.com/GlebRadaev/farmops/internal/pg"
	accountlogrepo "github.com/GlebRadaev/farmops/internal/repo/accountlog-repo"
	"github.com/GlebRadaev/farmops/internal/service/accountservice"
	"github.com/GlebRadaev/farmops/pkg/utils"
)

//go:generate mockgen -source=accounts.go -destination=mock_accounts.go -package=accounts

type Service interface {
	GetStatusInfo(ctx context.Context, accountID int, actor *domain.Actor, now time.Time) (*accountservice.StatusInfo, error)
	ChangeStatus(ctx context.Context, accountID int, status domain.Status, comment string, actor *domain.Actor, now time.Time) (*domain.Account, error)
	ChangeManager(ctx context.Context, accountID int, managerID *int, actor *domain.Actor, now time.Time) (*domain.Account, error)
	ChangeCard(ctx context.Context, accountID int, cardNumber string, actor *domain.Actor, now time.Time) (*domain.Account, error)
}

type AccountHandler struct {
	accountService Service
	now            func() time.Time
}

func New(accountService Service) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		now:            time.Now,
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accountservice.ErrAccountNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, accountservice.ErrIllegalTransition):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pg.ErrConcurrentModification):
		utils.RespondWithError(w, http.StatusConflict, "Account is being modified, retry")
	case errors.Is(err, accountservice.ErrInvalidCardNumber):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
	case errors.Is(err, accountlogrepo.ErrInvalidDimensionPayload):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toAccountDTO(acc *domain.Account) dto.AccountResponseDTO {
	return dto.AccountResponseDTO{
		ID:              acc.ID,
		Name:            acc.Name,
		Status:          string(acc.Status),
		StatusChangedAt: acc.StatusChangedAt,
		ManagerID:       acc.ManagerID,
		SupplierID:      acc.SupplierID,
		CardNumber:      acc.CardNumber,
	}
}

// GetStatus godoc
//
//	@Summary		Get account status
//	@Description	Current status, time spent in it, previous status and the statuses the caller may choose next.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Account ID"
//	@Success		200	{object}	dto.StatusResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid account id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id}/status [get]
func (h *AccountHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.IntParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	info, err := h.accountService.GetStatusInfo(r.Context(), id, request.Actor(r), h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	available := make([]string, 0, len(info.Available))
	for _, s := range info.Available {
		available = append(available, string(s))
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StatusResponseDTO{
		AccountID:       info.Account.ID,
		Status:          string(info.Account.Status),
		Comment:         info.Account.StatusComment,
		StatusChangedAt: info.Account.StatusChangedAt,
		DurationSeconds: int64(info.Duration / time.Second),
		PreviousStatus:  string(info.PreviousStatus),
		Available:       available,
	})
}

// ChangeStatus godoc
//
//	@Summary		Change account status
//	@Description	Moves the account along the status graph. Setting the current status again changes nothing.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Account ID"
//	@Param			request	body		dto.ChangeStatusRequestDTO	true	"New status"
//	@Success		200		{object}	dto.AccountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		409		{object}	utils.Response	"Illegal status transition"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id}/status [post]
func (h *AccountHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.IntParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	var req dto.ChangeStatusRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := domain.Status(req.Status)
	if !status.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	acc, err := h.accountService.ChangeStatus(r.Context(), id, status, req.Comment, request.Actor(r), h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toAccountDTO(acc))
}

// ChangeManager godoc
//
//	@Summary		Assign account manager
//	@Description	Assigns or clears the manager. Assigning a NEW account starts surfing.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Account ID"
//	@Param			request	body		dto.ChangeManagerRequestDTO	true	"Manager, null to unassign"
//	@Success		200		{object}	dto.AccountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id}/manager [post]
func (h *AccountHandler) ChangeManager(w http.ResponseWriter, r *http.Request) {
	id, err := request.IntParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	var req dto.ChangeManagerRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.accountService.ChangeManager(r.Context(), id, req.ManagerID, request.Actor(r), h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toAccountDTO(acc))
}

// ChangeCard godoc
//
//	@Summary		Set account payment card
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Account ID"
//	@Param			request	body		dto.ChangeCardRequestDTO	true	"Card number"
//	@Success		200		{object}	dto.AccountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id}/card [post]
func (h *AccountHandler) ChangeCard(w http.ResponseWriter, r *http.Request) {
	id, err := request.IntParam(r, "id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid account id")
		return
	}
	var req dto.ChangeCardRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	acc, err := h.accountService.ChangeCard(r.Context(), id, req.CardNumber, request.Actor(r), h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toAccountDTO(acc))
}

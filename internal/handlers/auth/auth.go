package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/GlebRadaev/farmops/internal/domain"
	"github.com/GlebRadaev/farmops/internal/dto"
	"github.com/GlebRadaev/farmops/internal/handlers/request"
	"github.com/GlebRadaev/farmops/internal/service/authservice"
	"github.com/GlebRadaev/farmops/pkg/utils"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=auth

type Service interface {
	CreateUser(ctx context.Context, actor *domain.Actor, user *domain.User, password string) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with a staff account and get a JWT token in the Authorization header
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "User successfully authenticated",
	})
}

// CreateUser godoc
//
//	@Summary		Create a staff user
//	@Description	Adds a user with the given role. Admins only.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateUserRequestDTO	true	"New user"
//	@Success		201		{object}	dto.UserResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		409		{object}	utils.Response	"User already exists"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequestDTO
	if err := request.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.authService.CreateUser(r.Context(), request.Actor(r), &domain.User{
		Login:          req.Login,
		Role:           domain.Role(req.Role),
		TelegramChatID: req.TelegramChatID,
	}, req.Password)
	switch {
	case errors.Is(err, authservice.ErrForbidden):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, authservice.ErrLoginTaken):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, authservice.ErrUnknownRole):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.UserResponseDTO{
		ID:             user.ID,
		Login:          user.Login,
		Role:           string(user.Role),
		TelegramChatID: user.TelegramChatID,
	})
}

package dto

type LoginRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}

type CreateUserRequestDTO struct {
	Login          string `json:"login" validate:"required,min=3,max=50" example:"manager1"`
	Password       string `json:"password" validate:"required,min=8,max=72" example:"secret-pass"`
	Role           string `json:"role" validate:"required,oneof=admin teamlead manager supplier financier" example:"manager"`
	TelegramChatID int64  `json:"telegram_chat_id" example:"123456789"`
}

type UserResponseDTO struct {
	ID             int    `json:"id" example:"7"`
	Login          string `json:"login" example:"manager1"`
	Role           string `json:"role" example:"manager"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty" example:"123456789"`
}

package dto

import "time"

type ChangeStatusRequestDTO struct {
	Status  string `json:"status" validate:"required" example:"ON_VERIFY"`
	Comment string `json:"comment" validate:"max=500" example:"checkpoint after payment"`
}

type StatusResponseDTO struct {
	AccountID       int       `json:"account_id" example:"42"`
	Status          string    `json:"status" example:"ACTIVE"`
	Comment         string    `json:"comment,omitempty" example:"checkpoint after payment"`
	StatusChangedAt time.Time `json:"status_changed_at" example:"2024-10-01T09:00:00Z"`
	DurationSeconds int64     `json:"duration_seconds" example:"3600"`
	PreviousStatus  string    `json:"previous_status,omitempty" example:"SETUP"`
	Available       []string  `json:"available" example:"SETUP,INACTIVE,ON_VERIFY,LOGOUT,BANNED"`
}

type ChangeManagerRequestDTO struct {
	ManagerID *int `json:"manager_id" validate:"omitempty,gt=0" example:"10"`
}

type ChangeCardRequestDTO struct {
	CardNumber string `json:"card_number" validate:"required,luhn" example:"4111111111111111"`
}

type AccountResponseDTO struct {
	ID              int       `json:"id" example:"42"`
	Name            string    `json:"name" example:"fb-042"`
	Status          string    `json:"status" example:"ACTIVE"`
	StatusChangedAt time.Time `json:"status_changed_at" example:"2024-10-01T09:00:00Z"`
	ManagerID       *int      `json:"manager_id,omitempty" example:"10"`
	SupplierID      *int      `json:"supplier_id,omitempty" example:"20"`
	CardNumber      string    `json:"card_number,omitempty" example:"4111111111111111"`
}

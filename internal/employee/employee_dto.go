package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	ManagerEmail string `json:"manager_email" binding:"omitempty,email"`
}

// UpdateEmployeeRequest is a patch; status is not settable here.
type UpdateEmployeeRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ManagerEmail *string `json:"manager_email" binding:"omitempty,email"`
}

type AddPointsRequest struct {
	Points *decimal.Decimal `json:"points"`
}

type EmployeeResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	ManagerEmail string          `json:"manager_email,omitempty"`
	TotalPoints  decimal.Decimal `json:"total_points"`
	Status       string          `json:"status"`
	WriteUpCount int             `json:"write_up_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type EmployeeOptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AddPointsResponse struct {
	Employee         EmployeeResponse `json:"employee"`
	NotificationSent bool             `json:"notification_sent"`
	Message          string           `json:"message"`
}

type ResetPointsResponse struct {
	Message        string           `json:"message"`
	Employee       EmployeeResponse `json:"employee"`
	PreviousPoints decimal.Decimal  `json:"previous_points"`
	NewPoints      decimal.Decimal  `json:"new_points"`
}

type PointEntryResponse struct {
	ID                string          `json:"id"`
	Reason            string          `json:"reason"`
	ReferenceID       string          `json:"reference_id,omitempty"`
	Delta             decimal.Decimal `json:"delta"`
	BalanceAfter      decimal.Decimal `json:"balance_after"`
	StatusAfter       string          `json:"status_after"`
	WriteUpCountAfter int             `json:"write_up_count_after"`
	CreatedAt         time.Time       `json:"created_at"`
}

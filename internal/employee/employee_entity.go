package employee

import (
	"time"

	"go-incident-tracker/internal/escalation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null;uniqueIndex:uq_employee_name"`
	Email        string    `gorm:"not null"`
	ManagerEmail string
	TotalPoints  decimal.Decimal   `gorm:"type:numeric(10,1);not null;default:0"`
	Status       escalation.Status `gorm:"type:varchar(20);not null;default:'Active'"`
	WriteUpCount int               `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ledger mutation reasons.
const (
	ReasonIncidentCreated  = "incident_created"
	ReasonIncidentDeleted  = "incident_deleted"
	ReasonManualAdjustment = "manual_adjustment"
	ReasonReset            = "reset"
)

// PointEntry is one row of the append-only point history.
type PointEntry struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey"`
	EmployeeID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	Reason            string            `gorm:"type:varchar(32);not null"`
	ReferenceID       *uuid.UUID        `gorm:"type:uuid"`
	Delta             decimal.Decimal   `gorm:"type:numeric(10,1);not null"`
	BalanceAfter      decimal.Decimal   `gorm:"type:numeric(10,1);not null"`
	StatusAfter       escalation.Status `gorm:"type:varchar(20);not null"`
	WriteUpCountAfter int               `gorm:"not null"`
	CreatedAt         time.Time
}

func (PointEntry) TableName() string {
	return "employee_point_entries"
}

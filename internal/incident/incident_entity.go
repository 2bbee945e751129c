package incident

import (
	"time"

	"go-incident-tracker/internal/escalation"
	"go-incident-tracker/internal/pointsrule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Incident holds a weak reference to its employee: no foreign key, and the
// employee may be gone by the time the incident is read or deleted.
type Incident struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReportNumber  string    `gorm:"type:varchar(20);uniqueIndex:uq_incident_report_number"`
	Title         string
	Description   string
	OccurredAt    time.Time               `gorm:"not null"`
	Location      string                  `gorm:"type:varchar(50);not null"`
	Category      pointsrule.Category     `gorm:"type:varchar(30);not null"`
	IncidentType  pointsrule.IncidentType `gorm:"type:varchar(60)"`
	Points        decimal.Decimal         `gorm:"type:numeric(10,1);not null"`
	Severity      string                  `gorm:"type:varchar(20);not null"`
	Status        string                  `gorm:"type:varchar(20);not null"`
	EmployeeID    *uuid.UUID              `gorm:"type:uuid;index"`
	Reporter      string                  `gorm:"type:varchar(50);not null"`
	ExtraComments string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeSummary is the employee projection attached to incident listings.
type EmployeeSummary struct {
	ID          uuid.UUID
	Name        string
	TotalPoints decimal.Decimal
	Status      escalation.Status
}

const UnknownEmployee = "Unknown Employee"

const (
	DefaultLocation = "Main Office"
	DefaultSeverity = "Medium"
	DefaultStatus   = "Open"
	DefaultReporter = "John Smith"
)

var Locations = []string{
	"Main Office",
	"Branch Office A",
	"Branch Office B",
	"Warehouse",
	"Parking Lot",
	"Server Room",
	"Conference Room",
	"Break Room",
	"Restroom",
	"Other",
}

var Severities = []string{"Low", "Medium", "High", "Critical"}

var Statuses = []string{"Open", "In Progress", "Resolved", "Closed"}

var Reporters = []string{
	"John Smith",
	"Jane Doe",
	"Mike Johnson",
	"Sarah Wilson",
	"David Brown",
	"Lisa Davis",
	"Robert Miller",
	"Emily Garcia",
	"Other",
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

package incident

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateIncidentRequest struct {
	EmployeeID    string     `json:"employee_id" binding:"required,uuid"`
	IncidentType  string     `json:"incident_type" binding:"required,incident_type"`
	Title         string     `json:"title" binding:"max=200"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Reporter      string     `json:"reporter"`
	ExtraComments string     `json:"extra_comments"`
	Date          *time.Time `json:"date"`
}

// UpdateIncidentRequest is a patch: nil fields are left untouched.
type UpdateIncidentRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=200"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location"`
	IncidentType  *string    `json:"incident_type" binding:"omitempty,incident_type"`
	Severity      *string    `json:"severity"`
	Status        *string    `json:"status"`
	Reporter      *string    `json:"reporter"`
	ExtraComments *string    `json:"extra_comments"`
	Date          *time.Time `json:"date"`
}

type EmployeeSummaryResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalPoints decimal.Decimal `json:"total_points"`
	Status      string          `json:"status"`
}

type IncidentResponse struct {
	ID            string                   `json:"id"`
	ReportNumber  string                   `json:"report_number"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Date          time.Time                `json:"date"`
	Location      string                   `json:"location"`
	Category      string                   `json:"category"`
	IncidentType  string                   `json:"incident_type"`
	Points        decimal.Decimal          `json:"points"`
	Severity      string                   `json:"severity"`
	Status        string                   `json:"status"`
	EmployeeID    string                   `json:"employee_id,omitempty"`
	Employee      *EmployeeSummaryResponse `json:"employee,omitempty"`
	Reporter      string                   `json:"reporter"`
	ExtraComments string                   `json:"extra_comments"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

type CreateIncidentResponse struct {
	Incident         IncidentResponse `json:"incident"`
	NotificationSent bool             `json:"notification_sent"`
}

type DeleteIncidentResponse struct {
	Message          string          `json:"message"`
	PointsSubtracted decimal.Decimal `json:"points_subtracted"`
	EmployeeName     string          `json:"employee_name"`
}

type ImportResponse struct {
	Message       string `json:"message"`
	ImportedCount int    `json:"imported_count"`
	SkippedCount  int    `json:"skipped_count"`
	TotalRows     int    `json:"total_rows"`
}

type IncidentTypesResponse struct {
	Categories      []string                   `json:"categories"`
	TypesByCategory map[string][]string        `json:"types_by_category"`
	Points          map[string]decimal.Decimal `json:"points"`
	Locations       []string                   `json:"locations"`
	Severities      []string                   `json:"severities"`
	Statuses        []string                   `json:"statuses"`
	Reporters       []string                   `json:"reporters"`
}

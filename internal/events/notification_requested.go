package events

import "time"

const NotificationRequestedType = "notification_requested"

// NotificationRequestedEvent dikirim lewat outbox ketika ambang poin memicu
// write-up atau terminasi.
type NotificationRequestedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	Kind         string    `json:"kind"`
	Ordinal      string    `json:"ordinal,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	ManagerEmail string    `json:"manager_email,omitempty"`
	Points       string    `json:"points"`
	OccurredAt   time.Time `json:"occurred_at"`
}

package notification

import (
	"fmt"
	"html"
	"time"

	"go-incident-tracker/internal/escalation"
	"go-incident-tracker/internal/events"

	"github.com/shopspring/decimal"
)

type Message struct {
	Kind         escalation.NoticeKind
	Ordinal      string
	EmployeeID   string
	EmployeeName string
	ManagerEmail string
	Points       decimal.Decimal
	RequestID    string
	OccurredAt   time.Time
}

func (m Message) Subject() string {
	if m.Kind == escalation.NoticeTermination {
		return fmt.Sprintf("%s - Termination Required", m.EmployeeName)
	}
	return fmt.Sprintf("%s - %s Write-Up Required", m.EmployeeName, m.Ordinal)
}

func (m Message) Text() string {
	if m.Kind == escalation.NoticeTermination {
		return fmt.Sprintf("%s has reached %s points and should be terminated.", m.EmployeeName, m.Points)
	}
	return fmt.Sprintf("%s has reached %s points and requires their %s write-up.", m.EmployeeName, m.Points, m.Ordinal)
}

func (m Message) HTML() string {
	name := html.EscapeString(m.EmployeeName)
	if m.Kind == escalation.NoticeTermination {
		return fmt.Sprintf(`<h2>Employee Termination Required</h2>
<p><strong>Employee:</strong> %s</p>
<p><strong>Current Points:</strong> %s</p>
<p><strong>Action Required:</strong> Termination</p>
<p>This employee has exceeded the maximum allowed points.</p>`, name, m.Points)
	}
	return fmt.Sprintf(`<h2>Employee Write-Up Required</h2>
<p><strong>Employee:</strong> %s</p>
<p><strong>Current Points:</strong> %s</p>
<p><strong>Action Required:</strong> %s Write-Up</p>
<p>Please review the incident reports and take appropriate action.</p>`, name, m.Points, html.EscapeString(m.Ordinal))
}

func (m Message) ToEvent() events.NotificationRequestedEvent {
	return events.NotificationRequestedEvent{
		EventType:    events.NotificationRequestedType,
		RequestID:    m.RequestID,
		Kind:         string(m.Kind),
		Ordinal:      m.Ordinal,
		EmployeeID:   m.EmployeeID,
		EmployeeName: m.EmployeeName,
		ManagerEmail: m.ManagerEmail,
		Points:       m.Points.String(),
		OccurredAt:   m.OccurredAt,
	}
}

func FromEvent(e events.NotificationRequestedEvent) (Message, error) {
	points, err := decimal.NewFromString(e.Points)
	if err != nil {
		return Message{}, fmt.Errorf("invalid points %q: %w", e.Points, err)
	}

	kind := escalation.NoticeKind(e.Kind)
	if kind != escalation.NoticeWriteUp && kind != escalation.NoticeTermination {
		return Message{}, fmt.Errorf("unknown notification kind %q", e.Kind)
	}

	return Message{
		Kind:         kind,
		Ordinal:      e.Ordinal,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		ManagerEmail: e.ManagerEmail,
		Points:       points,
		RequestID:    e.RequestID,
		OccurredAt:   e.OccurredAt,
	}, nil
}

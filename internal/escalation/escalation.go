// Package escalation maps an employee's cumulative points to a disciplinary
// status and decides which manager notice, if any, is due.
//
// The write-up count is a high-water mark: a write-up notice for a threshold is
// issued only while the count is still below that threshold's level, so a
// total hovering around a threshold does not notify twice. Termination is not
// guarded and is re-issued on every evaluation at or above the limit.
package escalation

import "github.com/shopspring/decimal"

type Status string

const (
	StatusActive       Status = "Active"
	StatusWarning      Status = "Warning"
	StatusFinalWarning Status = "Final Warning"
	StatusTerminated   Status = "Terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusWarning, StatusFinalWarning, StatusTerminated:
		return true
	}
	return false
}

type NoticeKind string

const (
	NoticeWriteUp     NoticeKind = "write_up"
	NoticeTermination NoticeKind = "termination"
)

type Notice struct {
	Kind    NoticeKind
	Ordinal string // "1st", "2nd", "3rd"; empty for termination
}

type Decision struct {
	Status       Status
	WriteUpCount int
	Notice       *Notice
}

var (
	TerminationThreshold  = decimal.NewFromInt(255)
	FinalWarningThreshold = decimal.NewFromInt(200)
	WarningThreshold      = decimal.NewFromInt(100)
	FirstWriteUpThreshold = decimal.NewFromInt(50)
)

// Evaluate applies the threshold ladder, highest threshold first. A single call
// yields at most one notice even when a jump crosses several thresholds.
func Evaluate(total decimal.Decimal, current Status, writeUps int) Decision {
	d := Decision{Status: current, WriteUpCount: writeUps}

	switch {
	case total.GreaterThanOrEqual(TerminationThreshold):
		d.Status = StatusTerminated
		d.Notice = &Notice{Kind: NoticeTermination}
	case total.GreaterThanOrEqual(FinalWarningThreshold):
		d.Status = StatusFinalWarning
		d.raiseWriteUps(3, "3rd")
	case total.GreaterThanOrEqual(WarningThreshold):
		d.Status = StatusWarning
		d.raiseWriteUps(2, "2nd")
	case total.GreaterThanOrEqual(FirstWriteUpThreshold):
		// status tetap, hanya write-up pertama
		d.raiseWriteUps(1, "1st")
	}

	return d
}

func (d *Decision) raiseWriteUps(level int, ordinal string) {
	if d.WriteUpCount >= level {
		return
	}
	d.WriteUpCount = level
	d.Notice = &Notice{Kind: NoticeWriteUp, Ordinal: ordinal}
}

// Reset is the only transition back to Active.
func Reset() Decision {
	return Decision{Status: StatusActive, WriteUpCount: 0}
}

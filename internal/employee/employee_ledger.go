package employee

import (
	"context"
	"database/sql"
	"time"

	employeeerrors "go-incident-tracker/internal/employee/errors"
	"go-incident-tracker/internal/escalation"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/shared/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxBalance is the largest total the NUMERIC(10,1) point columns hold.
var MaxBalance = decimal.RequireFromString("999999999.9")

// ValidAmount reports whether amount is positive, has at most one decimal
// place and fits the point columns. Totals are evaluated exactly as stored.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.Equal(amount.Round(1)) &&
		amount.LessThanOrEqual(MaxBalance)
}

// LedgerSource identifies what caused a ledger mutation.
type LedgerSource struct {
	Reason      string
	ReferenceID *uuid.UUID
}

type LedgerResult struct {
	Employee Employee
	Previous decimal.Decimal
	Notice   *escalation.Notice
}

// Ledger mutates an employee's point balance. Every mutation locks the employee
// row first, so it must run inside the caller's transaction (WithTx).
//
//go:generate mockgen -source=employee_ledger.go -destination=mock/employee_ledger_mock.go -package=mock
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	Lookup(ctx context.Context, id string) (*Employee, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal, src LedgerSource) (LedgerResult, error)
	Debit(ctx context.Context, id string, amount decimal.Decimal, src LedgerSource) (LedgerResult, error)
	Reset(ctx context.Context, id string, src LedgerSource) (LedgerResult, error)
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("employee.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.ledger")
	}
	return &ledger{repo: repo, logger: l, now: time.Now}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), logger: l.logger, now: l.now}
}

func (l *ledger) Lookup(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

func (l *ledger) Credit(
	ctx context.Context,
	id string,
	amount decimal.Decimal,
	src LedgerSource,
) (LedgerResult, error) {
	if !ValidAmount(amount) {
		return LedgerResult{}, employeeerrors.ErrInvalidPoints
	}

	empl, err := l.lock(ctx, id)
	if err != nil {
		return LedgerResult{}, err
	}

	next := empl.TotalPoints.Add(amount)
	if next.GreaterThan(MaxBalance) {
		return LedgerResult{}, employeeerrors.ErrPointsLimitExceeded
	}

	res := LedgerResult{Previous: empl.TotalPoints}
	empl.TotalPoints = next

	d := escalation.Evaluate(empl.TotalPoints, empl.Status, empl.WriteUpCount)
	empl.Status = d.Status
	empl.WriteUpCount = d.WriteUpCount
	res.Notice = d.Notice

	if err := l.persist(ctx, empl, amount, src); err != nil {
		return LedgerResult{}, err
	}
	metrics.LedgerMutations.WithLabelValues("credit").Inc()

	res.Employee = *empl
	return res, nil
}

// Debit never re-evaluates escalation: status and write-ups only ratchet up.
func (l *ledger) Debit(
	ctx context.Context,
	id string,
	amount decimal.Decimal,
	src LedgerSource,
) (LedgerResult, error) {
	if amount.IsNegative() || !amount.Equal(amount.Round(1)) {
		return LedgerResult{}, employeeerrors.ErrInvalidPoints
	}

	empl, err := l.lock(ctx, id)
	if err != nil {
		return LedgerResult{}, err
	}

	res := LedgerResult{Previous: empl.TotalPoints}
	next := empl.TotalPoints.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	empl.TotalPoints = next

	if err := l.persist(ctx, empl, next.Sub(res.Previous), src); err != nil {
		return LedgerResult{}, err
	}
	metrics.LedgerMutations.WithLabelValues("debit").Inc()

	res.Employee = *empl
	return res, nil
}

func (l *ledger) Reset(ctx context.Context, id string, src LedgerSource) (LedgerResult, error) {
	empl, err := l.lock(ctx, id)
	if err != nil {
		return LedgerResult{}, err
	}

	res := LedgerResult{Previous: empl.TotalPoints}
	d := escalation.Reset()
	empl.TotalPoints = decimal.Zero
	empl.Status = d.Status
	empl.WriteUpCount = d.WriteUpCount

	if err := l.persist(ctx, empl, res.Previous.Neg(), src); err != nil {
		return LedgerResult{}, err
	}
	metrics.LedgerMutations.WithLabelValues("reset").Inc()

	res.Employee = *empl
	return res, nil
}

func (l *ledger) lock(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := l.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return empl, nil
}

func (l *ledger) persist(ctx context.Context, empl *Employee, delta decimal.Decimal, src LedgerSource) error {
	now := l.now().UTC()
	empl.UpdatedAt = now

	if err := l.repo.UpdateLedger(ctx, empl); err != nil {
		l.logger.Error("ledger update failed",
			zap.String("employee_id", empl.ID.String()),
			zap.String("reason", src.Reason),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	entry := &PointEntry{
		ID:                uuid.New(),
		EmployeeID:        empl.ID,
		Reason:            src.Reason,
		ReferenceID:       src.ReferenceID,
		Delta:             delta,
		BalanceAfter:      empl.TotalPoints,
		StatusAfter:       empl.Status,
		WriteUpCountAfter: empl.WriteUpCount,
		CreatedAt:         now,
	}
	if err := l.repo.AppendPointEntry(ctx, entry); err != nil {
		l.logger.Error("ledger history append failed",
			zap.String("employee_id", empl.ID.String()),
			zap.Error(err),
		)
		return err
	}

	l.logger.Debug("ledger mutated",
		zap.String("employee_id", empl.ID.String()),
		zap.String("reason", src.Reason),
		zap.String("delta", delta.String()),
		zap.String("points", empl.TotalPoints.String()),
		zap.String("status", string(empl.Status)),
	)
	return nil
}

// NotificationFor turns a due notice into a message for the Notifier.
func NotificationFor(res LedgerResult) (notification.Message, bool) {
	if res.Notice == nil {
		return notification.Message{}, false
	}
	return notification.Message{
		Kind:         res.Notice.Kind,
		Ordinal:      res.Notice.Ordinal,
		EmployeeID:   res.Employee.ID.String(),
		EmployeeName: res.Employee.Name,
		ManagerEmail: res.Employee.ManagerEmail,
		Points:       res.Employee.TotalPoints,
	}, true
}

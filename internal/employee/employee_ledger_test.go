package employee_test

import (
	"context"
	"errors"
	"testing"

	"go-incident-tracker/internal/employee"
	employeeerrors "go-incident-tracker/internal/employee/errors"
	employeeMock "go-incident-tracker/internal/employee/mock"
	"go-incident-tracker/internal/escalation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func pts(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEmployee(total string, status escalation.Status, writeUps int) *employee.Employee {
	return &employee.Employee{
		ID:           uuid.New(),
		Name:         "Cloud",
		Email:        "cloud@company.com",
		ManagerEmail: "manager@company.com",
		TotalPoints:  pts(total),
		Status:       status,
		WriteUpCount: writeUps,
	}
}

func setupLedger(t *testing.T) (employee.Ledger, *employeeMock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	return employee.NewLedger(repo), repo
}

func TestLedger_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("crossing 50 issues first write-up", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("48", escalation.StatusActive, 0)
		incidentID := uuid.New()

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.True(t, e.TotalPoints.Equal(pts("51")))
				assert.Equal(t, 1, e.WriteUpCount)
				assert.Equal(t, escalation.StatusActive, e.Status)
				return nil
			})
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *employee.PointEntry) error {
				assert.Equal(t, employee.ReasonIncidentCreated, entry.Reason)
				assert.Equal(t, &incidentID, entry.ReferenceID)
				assert.True(t, entry.Delta.Equal(pts("3")))
				assert.True(t, entry.BalanceAfter.Equal(pts("51")))
				assert.Equal(t, 1, entry.WriteUpCountAfter)
				return nil
			})

		res, err := ledger.Credit(ctx, empl.ID.String(), pts("3"),
			employee.LedgerSource{Reason: employee.ReasonIncidentCreated, ReferenceID: &incidentID})

		require.NoError(t, err)
		assert.True(t, res.Previous.Equal(pts("48")))
		require.NotNil(t, res.Notice)
		assert.Equal(t, escalation.Notice{Kind: escalation.NoticeWriteUp, Ordinal: "1st"}, *res.Notice)

		msg, ok := employee.NotificationFor(res)
		assert.True(t, ok)
		assert.Equal(t, "Cloud", msg.EmployeeName)
		assert.Equal(t, "manager@company.com", msg.ManagerEmail)
		assert.True(t, msg.Points.Equal(pts("51")))
	})

	t.Run("half point below threshold stays quiet", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("49", escalation.StatusActive, 0)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).Return(nil)

		res, err := ledger.Credit(ctx, empl.ID.String(), pts("0.5"), employee.LedgerSource{Reason: employee.ReasonManualAdjustment})

		require.NoError(t, err)
		assert.Nil(t, res.Notice)
		assert.True(t, res.Employee.TotalPoints.Equal(pts("49.5")))
		_, ok := employee.NotificationFor(res)
		assert.False(t, ok)
	})

	t.Run("terminated employee is notified again", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("260", escalation.StatusTerminated, 3)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).Return(nil)

		res, err := ledger.Credit(ctx, empl.ID.String(), pts("1"), employee.LedgerSource{Reason: employee.ReasonManualAdjustment})

		require.NoError(t, err)
		require.NotNil(t, res.Notice)
		assert.Equal(t, escalation.NoticeTermination, res.Notice.Kind)
	})

	t.Run("non-positive amount rejected before locking", func(t *testing.T) {
		ledger, _ := setupLedger(t)

		_, err := ledger.Credit(ctx, uuid.NewString(), pts("0"), employee.LedgerSource{})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidPoints)
	})

	t.Run("amount finer than a tenth rejected", func(t *testing.T) {
		ledger, _ := setupLedger(t)

		_, err := ledger.Credit(ctx, uuid.NewString(), pts("0.06"), employee.LedgerSource{})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidPoints)
	})

	t.Run("tenth step crossing 50 is evaluated as stored", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("49.9", escalation.StatusActive, 0)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).Return(nil)

		res, err := ledger.Credit(ctx, empl.ID.String(), pts("0.1"), employee.LedgerSource{Reason: employee.ReasonManualAdjustment})

		require.NoError(t, err)
		assert.True(t, res.Employee.TotalPoints.Equal(pts("50")))
		assert.Equal(t, 1, res.Employee.WriteUpCount)
		require.NotNil(t, res.Notice)
		assert.Equal(t, "1st", res.Notice.Ordinal)
	})

	t.Run("total above column limit rejected", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("999999999", escalation.StatusTerminated, 3)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)

		_, err := ledger.Credit(ctx, empl.ID.String(), pts("1"), employee.LedgerSource{})

		assert.ErrorIs(t, err, employeeerrors.ErrPointsLimitExceeded)
		assert.True(t, empl.TotalPoints.Equal(pts("999999999")))
	})

	t.Run("invalid id", func(t *testing.T) {
		ledger, _ := setupLedger(t)

		_, err := ledger.Credit(ctx, "not-a-uuid", pts("1"), employee.LedgerSource{})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("employee not found", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		id := uuid.NewString()

		repo.EXPECT().FindByIDForUpdate(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := ledger.Credit(ctx, id, pts("1"), employee.LedgerSource{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("history append failure aborts", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("0", escalation.StatusActive, 0)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).Return(errors.New("db down"))

		_, err := ledger.Credit(ctx, empl.ID.String(), pts("1"), employee.LedgerSource{})

		assert.Error(t, err)
	})
}

func TestLedger_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("subtracts without touching escalation", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("120", escalation.StatusWarning, 2)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *employee.PointEntry) error {
				assert.True(t, entry.Delta.Equal(pts("-30")))
				return nil
			})

		res, err := ledger.Debit(ctx, empl.ID.String(), pts("30"), employee.LedgerSource{Reason: employee.ReasonIncidentDeleted})

		require.NoError(t, err)
		assert.True(t, res.Employee.TotalPoints.Equal(pts("90")))
		assert.Equal(t, escalation.StatusWarning, res.Employee.Status)
		assert.Equal(t, 2, res.Employee.WriteUpCount)
		assert.Nil(t, res.Notice)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		ledger, repo := setupLedger(t)
		empl := newEmployee("2", escalation.StatusActive, 0)

		repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
		repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *employee.PointEntry) error {
				// delta mencatat yang benar-benar dikurangi
				assert.True(t, entry.Delta.Equal(pts("-2")))
				return nil
			})

		res, err := ledger.Debit(ctx, empl.ID.String(), pts("5"), employee.LedgerSource{Reason: employee.ReasonIncidentDeleted})

		require.NoError(t, err)
		assert.True(t, res.Employee.TotalPoints.IsZero())
		assert.True(t, res.Previous.Equal(pts("2")))
	})
}

func TestLedger_Reset(t *testing.T) {
	ctx := context.Background()
	ledger, repo := setupLedger(t)
	empl := newEmployee("270", escalation.StatusTerminated, 3)

	repo.EXPECT().FindByIDForUpdate(ctx, empl.ID.String()).Return(empl, nil)
	repo.EXPECT().UpdateLedger(ctx, gomock.Any()).Return(nil)
	repo.EXPECT().AppendPointEntry(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *employee.PointEntry) error {
			assert.Equal(t, employee.ReasonReset, entry.Reason)
			assert.True(t, entry.Delta.Equal(pts("-270")))
			return nil
		})

	res, err := ledger.Reset(ctx, empl.ID.String(), employee.LedgerSource{Reason: employee.ReasonReset})

	require.NoError(t, err)
	assert.True(t, res.Previous.Equal(pts("270")))
	assert.True(t, res.Employee.TotalPoints.IsZero())
	assert.Equal(t, escalation.StatusActive, res.Employee.Status)
	assert.Zero(t, res.Employee.WriteUpCount)
	assert.Nil(t, res.Notice)
}

func TestLedger_Lookup(t *testing.T) {
	ctx := context.Background()
	ledger, repo := setupLedger(t)
	empl := newEmployee("0", escalation.StatusActive, 0)

	repo.EXPECT().FindByID(ctx, empl.ID.String()).Return(empl, nil)

	got, err := ledger.Lookup(ctx, empl.ID.String())

	require.NoError(t, err)
	assert.Equal(t, "Cloud", got.Name)
}

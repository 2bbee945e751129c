package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-incident-tracker/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeNotFound, "Employee not found", http.StatusNotFound)

		got := apperror.ToHTTP(fmt.Errorf("lookup: %w", err))

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Equal(t, "Employee not found", got.Message)
	})

	t.Run("unknown error hides message", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "pq")
	})

	t.Run("wrapped client error exposes details", func(t *testing.T) {
		err := apperror.Wrap(errors.New("row 3 malformed"), apperror.CodeInvalidInput, "Invalid file", http.StatusBadRequest)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, "row 3 malformed", got.Details)
	})
}

type sample struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Severity   string `json:"severity" validate:"omitempty,oneof=Low Medium"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(sample{})
	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	assert.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "is required")

	err = v.Struct(sample{EmployeeID: "x", Severity: "Extreme"})
	mapped = apperror.MapValidationError(err)
	assert.ErrorAs(t, mapped, &appErr)
	assert.Contains(t, appErr.Message, "allowed values")
}

func TestInit_RegistersIncidentType(t *testing.T) {
	require.NoError(t, apperror.Init())

	type payload struct {
		IncidentType string `json:"incident_type" binding:"required,incident_type"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(payload{IncidentType: "Tardiness"}))

	err := binding.Validator.ValidateStruct(payload{IncidentType: "Napping"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "incident_type", verrs[0].Field())
	assert.Equal(t, "incident_type", verrs[0].Tag())
}

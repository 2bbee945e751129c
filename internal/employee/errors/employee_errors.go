package employeeerrors

import (
	"go-incident-tracker/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeNameTaken = apperror.New(
		apperror.CodeConflict,
		"Employee with the same name already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidPoints = apperror.New(
		apperror.CodeInvalidInput,
		"Points must be greater than zero with at most one decimal place",
		http.StatusBadRequest,
	)
	ErrPointsLimitExceeded = apperror.New(
		apperror.CodeInvalidInput,
		"Total points would exceed the maximum balance",
		http.StatusBadRequest,
	)
	ErrEmptyName = apperror.New(
		apperror.CodeInvalidInput,
		"Employee name cannot be empty",
		http.StatusBadRequest,
	)
)

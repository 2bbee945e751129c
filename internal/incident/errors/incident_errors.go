package incidenterrors

import (
	"go-incident-tracker/internal/shared/apperror"
	"net/http"
)

var (
	ErrIncidentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Incident report not found",
		http.StatusNotFound,
	)
	ErrInvalidIncidentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid incident ID",
		http.StatusBadRequest,
	)
	ErrInvalidIncidentType = apperror.New(
		apperror.CodeInvalidInput,
		"Incident type must be one of the allowed values",
		http.StatusBadRequest,
	)
	ErrInvalidLocation = apperror.New(
		apperror.CodeInvalidInput,
		"Location must be one of the allowed values",
		http.StatusBadRequest,
	)
	ErrInvalidSeverity = apperror.New(
		apperror.CodeInvalidInput,
		"Severity must be one of the allowed values",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of the allowed values",
		http.StatusBadRequest,
	)
	ErrInvalidReporter = apperror.New(
		apperror.CodeInvalidInput,
		"Reporter must be one of the allowed values",
		http.StatusBadRequest,
	)
	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"No file uploaded",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"File exceeds the 5MB limit",
		http.StatusBadRequest,
	)
	ErrUnsupportedFile = apperror.New(
		apperror.CodeInvalidInput,
		"Only Excel (.xlsx) files are allowed",
		http.StatusBadRequest,
	)
	ErrInvalidSpreadsheet = apperror.New(
		apperror.CodeInvalidInput,
		"No worksheet found in Excel file",
		http.StatusBadRequest,
	)
	ErrNoValidRows = apperror.New(
		apperror.CodeInvalidInput,
		"No valid incidents found in Excel file",
		http.StatusBadRequest,
	)
)

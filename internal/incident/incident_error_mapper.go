package incident

import (
	"errors"

	incidenterrors "go-incident-tracker/internal/incident/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return incidenterrors.ErrIncidentNotFound
	}

	return err
}

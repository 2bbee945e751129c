package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-incident-tracker/internal/escalation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultManagerEmail = "manager@company.com"

var defaultRosterNames = []string{
	"Matthew", "Test", "Fred", "David", "Frank", "George",
	"Cloud", "Tifa", "Barret", "RedXIII", "Yuffie", "Aerith",
}

// DefaultRoster is the initial staff list loaded by cmd/seed.
func DefaultRoster() []CreateEmployeeRequest {
	out := make([]CreateEmployeeRequest, len(defaultRosterNames))
	for i, name := range defaultRosterNames {
		out[i] = CreateEmployeeRequest{
			Name:         name,
			Email:        strings.ToLower(name) + "@company.com",
			ManagerEmail: defaultManagerEmail,
		}
	}
	return out
}

// Seed inserts every roster entry whose name is not taken yet and returns how
// many were added. Running it twice is a no-op.
func Seed(ctx context.Context, repo Repository, roster []CreateEmployeeRequest, logger *zap.Logger) (int, error) {
	log := logger.Named("employee.seed")
	added := 0
	for _, req := range roster {
		_, err := repo.FindByName(ctx, req.Name)
		switch {
		case err == nil:
			log.Info("employee already exists, skipping", zap.String("name", req.Name))
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return added, err
		}

		now := time.Now().UTC()
		if err := repo.Create(ctx, &Employee{
			ID:           uuid.New(),
			Name:         req.Name,
			Email:        req.Email,
			ManagerEmail: req.ManagerEmail,
			TotalPoints:  decimal.Zero,
			Status:       escalation.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return added, mapRepositoryError(err)
		}
		added++
		log.Info("employee added", zap.String("name", req.Name))
	}
	return added, nil
}

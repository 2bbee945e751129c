package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-incident-tracker/internal/employee/errors"
	"go-incident-tracker/internal/escalation"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	AddPoints(ctx context.Context, id string, req AddPointsRequest) (AddPointsResponse, error)
	ResetPoints(ctx context.Context, id string) (ResetPointsResponse, error)
	GetPointHistory(ctx context.Context, id string) ([]PointEntryResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	ledger   Ledger
	notifier notification.Notifier
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger Ledger,
	notifier notification.Notifier,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		notifier: notifier,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return EmployeeResponse{}, employeeerrors.ErrEmptyName
	}

	now := time.Now().UTC()
	empl := &Employee{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.TrimSpace(req.Email),
		ManagerEmail: strings.TrimSpace(req.ManagerEmail),
		TotalPoints:  decimal.Zero,
		Status:       escalation.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested")
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight supaya form yang dibuka bersamaan cuma memicu satu query
	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(empls))
		for i, e := range empls {
			resp[i] = EmployeeOptionResponse{ID: e.ID.String(), Name: e.Name}
		}

		// 3. Simpan ke Redis
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, EmployeeOptionsKey, string(jsonData), time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		s.logger.Error("get employee options failed", zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return EmployeeResponse{}, employeeerrors.ErrEmptyName
		}
		empl.Name = name
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		empl.Email = strings.TrimSpace(*req.Email)
	}
	if req.ManagerEmail != nil {
		empl.ManagerEmail = strings.TrimSpace(*req.ManagerEmail)
	}
	empl.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("update employee success", zap.String("request_id", rid), zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptions(ctx)
	s.logger.Info("delete employee success", zap.String("request_id", rid), zap.String("employee_id", id))
	return nil
}

func (s *service) AddPoints(ctx context.Context, id string, req AddPointsRequest) (AddPointsResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.Points == nil || !ValidAmount(*req.Points) {
		s.logger.Warn("add points rejected", zap.String("request_id", rid), zap.String("employee_id", id))
		return AddPointsResponse{}, employeeerrors.ErrInvalidPoints
	}
	s.logger.Debug("add points requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("points", req.Points.String()),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add points begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AddPointsResponse{}, err
	}
	defer tx.Rollback()

	res, err := s.ledger.WithTx(tx).Credit(ctx, id, *req.Points, LedgerSource{Reason: ReasonManualAdjustment})
	if err != nil {
		s.logger.Warn("add points failed", zap.String("employee_id", id), zap.Error(err))
		return AddPointsResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add points commit failed", zap.String("request_id", rid), zap.Error(err))
		return AddPointsResponse{}, err
	}

	// notifikasi hanya setelah commit
	sent := false
	if msg, ok := NotificationFor(res); ok {
		s.notifier.Notify(ctx, msg)
		sent = true
	}

	s.logger.Info("add points success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("points", res.Employee.TotalPoints.String()),
		zap.Bool("notification_sent", sent),
	)

	message := "Points added successfully"
	if sent {
		message = "Points added and notification sent"
	}
	return AddPointsResponse{
		Employee:         mapToResponse(res.Employee),
		NotificationSent: sent,
		Message:          message,
	}, nil
}

func (s *service) ResetPoints(ctx context.Context, id string) (ResetPointsResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("reset points requested", zap.String("request_id", rid), zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reset points begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ResetPointsResponse{}, err
	}
	defer tx.Rollback()

	res, err := s.ledger.WithTx(tx).Reset(ctx, id, LedgerSource{Reason: ReasonReset})
	if err != nil {
		s.logger.Warn("reset points failed", zap.String("employee_id", id), zap.Error(err))
		return ResetPointsResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reset points commit failed", zap.String("request_id", rid), zap.Error(err))
		return ResetPointsResponse{}, err
	}

	s.logger.Info("reset points success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.String("previous_points", res.Previous.String()),
	)

	return ResetPointsResponse{
		Message:        fmt.Sprintf("Points reset for %s", res.Employee.Name),
		Employee:       mapToResponse(res.Employee),
		PreviousPoints: res.Previous,
		NewPoints:      decimal.Zero,
	}, nil
}

func (s *service) GetPointHistory(ctx context.Context, id string) ([]PointEntryResponse, error) {
	s.logger.Debug("get point history requested", zap.String("employee_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	entries, err := s.repo.FindPointEntries(ctx, id)
	if err != nil {
		s.logger.Error("get point history failed", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}

	resp := make([]PointEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = PointEntryResponse{
			ID:                e.ID.String(),
			Reason:            e.Reason,
			Delta:             e.Delta,
			BalanceAfter:      e.BalanceAfter,
			StatusAfter:       string(e.StatusAfter),
			WriteUpCountAfter: e.WriteUpCountAfter,
			CreatedAt:         e.CreatedAt,
		}
		if e.ReferenceID != nil {
			resp[i].ReferenceID = e.ReferenceID.String()
		}
	}
	return resp, nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           empl.ID.String(),
		Name:         empl.Name,
		Email:        empl.Email,
		ManagerEmail: empl.ManagerEmail,
		TotalPoints:  empl.TotalPoints,
		Status:       string(empl.Status),
		WriteUpCount: empl.WriteUpCount,
		CreatedAt:    empl.CreatedAt,
		UpdatedAt:    empl.UpdatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

package incident

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-incident-tracker/internal/employee"
	employeeerrors "go-incident-tracker/internal/employee/errors"
	incidenterrors "go-incident-tracker/internal/incident/errors"
	"go-incident-tracker/internal/notification"
	"go-incident-tracker/internal/pointsrule"
	"go-incident-tracker/internal/shared/contextutil"
	"go-incident-tracker/internal/shared/counter"
	"go-incident-tracker/internal/shared/metrics"
	"go-incident-tracker/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=incident_service.go -destination=mock/incident_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateIncidentRequest) (CreateIncidentResponse, error)
	GetAll(ctx context.Context) ([]IncidentResponse, error)
	GetByID(ctx context.Context, id string) (IncidentResponse, error)
	Update(ctx context.Context, id string, req UpdateIncidentRequest) (IncidentResponse, error)
	Delete(ctx context.Context, id string) (DeleteIncidentResponse, error)
	Import(ctx context.Context, rows []spreadsheet.IncidentRow, totalRows int) (ImportResponse, error)
	Export(ctx context.Context) ([]spreadsheet.ExportRow, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	ledger   employee.Ledger
	counter  counter.Repository
	notifier notification.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger employee.Ledger,
	counterRepo counter.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("incident.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("incident.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		ledger:   ledger,
		counter:  counterRepo,
		notifier: notifier,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateIncidentRequest) (CreateIncidentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create incident requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("incident_type", req.IncidentType),
	)

	incidentType := pointsrule.IncidentType(req.IncidentType)
	if !pointsrule.IsKnownType(incidentType) {
		return CreateIncidentResponse{}, incidenterrors.ErrInvalidIncidentType
	}
	fields, err := withDefaults(req.Location, req.Severity, req.Status, req.Reporter)
	if err != nil {
		s.logger.Warn("create incident invalid field", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, err
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return CreateIncidentResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create incident begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, err
	}
	defer tx.Rollback()

	ledger := s.ledger.WithTx(tx)

	// Employee yang tidak ditemukan tidak menggagalkan pembuatan incident,
	// tetapi poin dan eskalasi dilewati.
	employeeName := UnknownEmployee
	empl, err := ledger.Lookup(ctx, req.EmployeeID)
	switch {
	case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
		empl = nil
		s.logger.Warn("create incident for unknown employee",
			zap.String("request_id", rid),
			zap.String("employee_id", req.EmployeeID),
		)
	case err != nil:
		s.logger.Error("create incident employee lookup failed", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, err
	default:
		employeeName = empl.Name
	}

	number, err := s.counter.GetNextValue(ctx, counter.IncidentReportNumber)
	if err != nil {
		s.logger.Error("create incident generate number failed", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, err
	}

	now := s.now().UTC()
	inc := &Incident{
		ID:            uuid.New(),
		ReportNumber:  fmt.Sprintf("INC-%06d", number),
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		OccurredAt:    now,
		Location:      fields.location,
		Category:      pointsrule.CategoryFor(incidentType),
		IncidentType:  incidentType,
		Points:        pointsrule.PointsFor(incidentType),
		Severity:      fields.severity,
		Status:        fields.status,
		EmployeeID:    &employeeID,
		Reporter:      fields.reporter,
		ExtraComments: strings.TrimSpace(req.ExtraComments),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Date != nil {
		inc.OccurredAt = req.Date.UTC()
	}
	if inc.Title == "" {
		inc.Title = fmt.Sprintf("%s - %s", employeeName, incidentType)
	}
	if inc.Description == "" {
		inc.Description = fmt.Sprintf("Incident type: %s for %s", incidentType, employeeName)
	}

	if err := s.repo.WithTx(tx).Create(ctx, inc); err != nil {
		s.logger.Error("create incident persist failed", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, mapRepositoryError(err)
	}

	var credited *employee.LedgerResult
	if empl != nil {
		res, err := ledger.Credit(ctx, req.EmployeeID, inc.Points, employee.LedgerSource{
			Reason:      employee.ReasonIncidentCreated,
			ReferenceID: &inc.ID,
		})
		if err != nil {
			s.logger.Error("create incident ledger credit failed",
				zap.String("request_id", rid),
				zap.String("employee_id", req.EmployeeID),
				zap.Error(err),
			)
			return CreateIncidentResponse{}, err
		}
		credited = &res
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create incident commit failed", zap.String("request_id", rid), zap.Error(err))
		return CreateIncidentResponse{}, err
	}
	metrics.IncidentsCreated.WithLabelValues(string(inc.Category)).Inc()

	resp := CreateIncidentResponse{Incident: mapToResponse(*inc, nil)}
	if credited != nil {
		resp.Incident.Employee = summaryResponse(credited.Employee.ID, credited.Employee.Name,
			credited.Employee.TotalPoints, string(credited.Employee.Status))
		if msg, ok := employee.NotificationFor(*credited); ok {
			s.notifier.Notify(ctx, msg)
			resp.NotificationSent = true
		}
	}

	s.logger.Info("create incident success",
		zap.String("request_id", rid),
		zap.String("incident_id", inc.ID.String()),
		zap.String("report_number", inc.ReportNumber),
		zap.String("points", inc.Points.String()),
		zap.Bool("notification_sent", resp.NotificationSent),
	)

	return resp, nil
}

func (s *service) GetAll(ctx context.Context) ([]IncidentResponse, error) {
	s.logger.Debug("get all incidents requested")
	incs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all incidents failed", zap.Error(err))
		return nil, err
	}

	summaries, err := s.summaries(ctx, incs)
	if err != nil {
		s.logger.Error("get incident employee summaries failed", zap.Error(err))
		return nil, err
	}

	resp := make([]IncidentResponse, len(incs))
	for i, inc := range incs {
		resp[i] = mapToResponse(inc, summaries)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (IncidentResponse, error) {
	s.logger.Debug("get incident by id requested", zap.String("incident_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return IncidentResponse{}, incidenterrors.ErrInvalidIncidentID
	}

	inc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get incident by id failed", zap.String("incident_id", id), zap.Error(err))
		return IncidentResponse{}, mapRepositoryError(err)
	}

	summaries, err := s.summaries(ctx, []Incident{*inc})
	if err != nil {
		return IncidentResponse{}, err
	}
	return mapToResponse(*inc, summaries), nil
}

// Update tidak menyentuh ledger: perubahan tipe hanya menghitung ulang
// kategori dan poin yang tersimpan di incident.
func (s *service) Update(ctx context.Context, id string, req UpdateIncidentRequest) (IncidentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update incident requested", zap.String("request_id", rid), zap.String("incident_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return IncidentResponse{}, incidenterrors.ErrInvalidIncidentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update incident begin tx failed", zap.Error(err))
		return IncidentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inc, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("update incident fetch failed", zap.String("incident_id", id), zap.Error(err))
		return IncidentResponse{}, mapRepositoryError(err)
	}

	if err := applyPatch(inc, req); err != nil {
		s.logger.Warn("update incident invalid field", zap.String("incident_id", id), zap.Error(err))
		return IncidentResponse{}, err
	}
	inc.UpdatedAt = s.now().UTC()

	if err := qtx.Update(ctx, inc); err != nil {
		s.logger.Error("update incident persist failed", zap.Error(err))
		return IncidentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update incident commit failed", zap.Error(err))
		return IncidentResponse{}, err
	}

	s.logger.Info("update incident success", zap.String("request_id", rid), zap.String("incident_id", id))
	return mapToResponse(*inc, nil), nil
}

// Delete mengurangi poin employee sebesar poin yang tersimpan (minimal 0)
// lalu menghapus incident. Status dan write-up tidak diturunkan.
func (s *service) Delete(ctx context.Context, id string) (DeleteIncidentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete incident requested", zap.String("request_id", rid), zap.String("incident_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return DeleteIncidentResponse{}, incidenterrors.ErrInvalidIncidentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete incident begin tx failed", zap.Error(err))
		return DeleteIncidentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	inc, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("delete incident fetch failed", zap.String("incident_id", id), zap.Error(err))
		return DeleteIncidentResponse{}, mapRepositoryError(err)
	}

	resp := DeleteIncidentResponse{
		Message:          "Incident report deleted",
		PointsSubtracted: inc.Points,
		EmployeeName:     "Unknown",
	}

	if inc.EmployeeID != nil {
		res, err := s.ledger.WithTx(tx).Debit(ctx, inc.EmployeeID.String(), inc.Points, employee.LedgerSource{
			Reason:      employee.ReasonIncidentDeleted,
			ReferenceID: &inc.ID,
		})
		switch {
		case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
			s.logger.Warn("delete incident employee already gone",
				zap.String("incident_id", id),
				zap.String("employee_id", inc.EmployeeID.String()),
			)
		case err != nil:
			s.logger.Error("delete incident ledger debit failed", zap.String("incident_id", id), zap.Error(err))
			return DeleteIncidentResponse{}, err
		default:
			resp.EmployeeName = res.Employee.Name
		}
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete incident failed", zap.String("incident_id", id), zap.Error(err))
		return DeleteIncidentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete incident commit failed", zap.Error(err))
		return DeleteIncidentResponse{}, err
	}

	s.logger.Info("delete incident success",
		zap.String("request_id", rid),
		zap.String("incident_id", id),
		zap.String("points_subtracted", resp.PointsSubtracted.String()),
	)
	return resp, nil
}

// Import menyimpan baris spreadsheet apa adanya tanpa employee dan tanpa
// menyentuh ledger maupun eskalasi.
func (s *service) Import(ctx context.Context, rows []spreadsheet.IncidentRow, totalRows int) (ImportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("import incidents requested", zap.String("request_id", rid), zap.Int("rows", len(rows)))

	now := s.now().UTC()
	incs := make([]Incident, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.Title == "" && row.Description == "" {
			skipped++
			continue
		}
		fields, err := withDefaults(row.Location, row.Severity, row.Status, row.Reporter)
		if err != nil {
			skipped++
			continue
		}
		incidentType := pointsrule.IncidentType(row.IncidentType)
		if incidentType != "" && !pointsrule.IsKnownType(incidentType) {
			skipped++
			continue
		}

		inc := Incident{
			ID:            uuid.New(),
			Title:         row.Title,
			Description:   row.Description,
			OccurredAt:    now,
			Location:      fields.location,
			Category:      pointsrule.CategoryFor(incidentType),
			IncidentType:  incidentType,
			Points:        pointsrule.PointsFor(incidentType),
			Severity:      fields.severity,
			Status:        fields.status,
			Reporter:      fields.reporter,
			ExtraComments: row.ExtraComments,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if row.Date != nil {
			inc.OccurredAt = row.Date.UTC()
		}
		incs = append(incs, inc)
	}

	if len(incs) == 0 {
		s.logger.Warn("import incidents found no valid rows", zap.String("request_id", rid), zap.Int("skipped", skipped))
		return ImportResponse{}, incidenterrors.ErrNoValidRows
	}

	for i := range incs {
		number, err := s.counter.GetNextValue(ctx, counter.IncidentReportNumber)
		if err != nil {
			s.logger.Error("import incidents generate number failed", zap.String("request_id", rid), zap.Error(err))
			return ImportResponse{}, err
		}
		incs[i].ReportNumber = fmt.Sprintf("INC-%06d", number)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("import incidents begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateBatch(ctx, incs); err != nil {
		s.logger.Error("import incidents persist failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("import incidents commit failed", zap.String("request_id", rid), zap.Error(err))
		return ImportResponse{}, err
	}
	metrics.IncidentsImported.Add(float64(len(incs)))

	s.logger.Info("import incidents success",
		zap.String("request_id", rid),
		zap.Int("imported", len(incs)),
		zap.Int("skipped", skipped),
	)

	return ImportResponse{
		Message:       fmt.Sprintf("Successfully imported %d incidents from Excel file", len(incs)),
		ImportedCount: len(incs),
		SkippedCount:  skipped,
		TotalRows:     totalRows,
	}, nil
}

func (s *service) Export(ctx context.Context) ([]spreadsheet.ExportRow, error) {
	s.logger.Debug("export incidents requested")
	incs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("export incidents failed", zap.Error(err))
		return nil, err
	}

	rows := make([]spreadsheet.ExportRow, len(incs))
	for i, inc := range incs {
		rows[i] = spreadsheet.ExportRow{
			ID:            inc.ID.String(),
			ReportNumber:  inc.ReportNumber,
			Title:         inc.Title,
			Description:   inc.Description,
			Location:      inc.Location,
			Category:      string(inc.Category),
			IncidentType:  string(inc.IncidentType),
			Points:        inc.Points,
			Severity:      inc.Severity,
			Status:        inc.Status,
			Reporter:      inc.Reporter,
			ExtraComments: inc.ExtraComments,
			Date:          inc.OccurredAt,
			CreatedAt:     inc.CreatedAt,
			UpdatedAt:     inc.UpdatedAt,
		}
	}
	return rows, nil
}

func (s *service) summaries(ctx context.Context, incs []Incident) (map[uuid.UUID]EmployeeSummary, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, inc := range incs {
		if inc.EmployeeID == nil {
			continue
		}
		if _, ok := seen[*inc.EmployeeID]; ok {
			continue
		}
		seen[*inc.EmployeeID] = struct{}{}
		ids = append(ids, *inc.EmployeeID)
	}

	out := make(map[uuid.UUID]EmployeeSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.repo.FindEmployeeSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

type enumFields struct {
	location string
	severity string
	status   string
	reporter string
}

func withDefaults(location, severity, status, reporter string) (enumFields, error) {
	f := enumFields{
		location: orDefault(location, DefaultLocation),
		severity: orDefault(severity, DefaultSeverity),
		status:   orDefault(status, DefaultStatus),
		reporter: orDefault(reporter, DefaultReporter),
	}
	switch {
	case !oneOf(f.location, Locations):
		return f, incidenterrors.ErrInvalidLocation
	case !oneOf(f.severity, Severities):
		return f, incidenterrors.ErrInvalidSeverity
	case !oneOf(f.status, Statuses):
		return f, incidenterrors.ErrInvalidStatus
	case !oneOf(f.reporter, Reporters):
		return f, incidenterrors.ErrInvalidReporter
	}
	return f, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func applyPatch(inc *Incident, req UpdateIncidentRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		inc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		inc.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil && *req.Location != "" {
		if !oneOf(*req.Location, Locations) {
			return incidenterrors.ErrInvalidLocation
		}
		inc.Location = *req.Location
	}
	if req.IncidentType != nil && *req.IncidentType != "" {
		t := pointsrule.IncidentType(*req.IncidentType)
		if !pointsrule.IsKnownType(t) {
			return incidenterrors.ErrInvalidIncidentType
		}
		inc.IncidentType = t
		inc.Category = pointsrule.CategoryFor(t)
		inc.Points = pointsrule.PointsFor(t)
	}
	if req.Severity != nil && *req.Severity != "" {
		if !oneOf(*req.Severity, Severities) {
			return incidenterrors.ErrInvalidSeverity
		}
		inc.Severity = *req.Severity
	}
	if req.Status != nil && *req.Status != "" {
		if !oneOf(*req.Status, Statuses) {
			return incidenterrors.ErrInvalidStatus
		}
		inc.Status = *req.Status
	}
	if req.Reporter != nil && *req.Reporter != "" {
		if !oneOf(*req.Reporter, Reporters) {
			return incidenterrors.ErrInvalidReporter
		}
		inc.Reporter = *req.Reporter
	}
	// extra comments boleh dikosongkan
	if req.ExtraComments != nil {
		inc.ExtraComments = strings.TrimSpace(*req.ExtraComments)
	}
	if req.Date != nil {
		inc.OccurredAt = req.Date.UTC()
	}
	return nil
}

func summaryResponse(id uuid.UUID, name string, points decimal.Decimal, status string) *EmployeeSummaryResponse {
	return &EmployeeSummaryResponse{
		ID:          id.String(),
		Name:        name,
		TotalPoints: points,
		Status:      status,
	}
}

func mapToResponse(inc Incident, summaries map[uuid.UUID]EmployeeSummary) IncidentResponse {
	resp := IncidentResponse{
		ID:            inc.ID.String(),
		ReportNumber:  inc.ReportNumber,
		Title:         inc.Title,
		Description:   inc.Description,
		Date:          inc.OccurredAt,
		Location:      inc.Location,
		Category:      string(inc.Category),
		IncidentType:  string(inc.IncidentType),
		Points:        inc.Points,
		Severity:      inc.Severity,
		Status:        inc.Status,
		Reporter:      inc.Reporter,
		ExtraComments: inc.ExtraComments,
		CreatedAt:     inc.CreatedAt,
		UpdatedAt:     inc.UpdatedAt,
	}
	if inc.EmployeeID != nil {
		resp.EmployeeID = inc.EmployeeID.String()
		if e, ok := summaries[*inc.EmployeeID]; ok {
			resp.Employee = summaryResponse(e.ID, e.Name, e.TotalPoints, string(e.Status))
		}
	}
	return resp
}

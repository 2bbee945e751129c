package incident

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	incidenterrors "go-incident-tracker/internal/incident/errors"
	"go-incident-tracker/internal/pointsrule"
	"go-incident-tracker/internal/shared/apperror"
	"go-incident-tracker/internal/shared/contextutil"
	"go-incident-tracker/internal/shared/response"
	"go-incident-tracker/internal/spreadsheet"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	uploadField   = "excelFile"
	maxUploadSize = 5 << 20
	// ruang untuk boundary dan header multipart
	multipartOverhead = 1 << 20
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("incident.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("incident.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	contextutil.ScopedLogger(c.Request.Context(), h.logger, "incident.handler").Warn("incident request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	h.logger.Debug("http create incident")
	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	h.logger.Debug("http get all incidents")
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http get incident by id", zap.String("incident_id", id))

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http update incident", zap.String("incident_id", id))

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http delete incident", zap.String("incident_id", id))

	resp, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExcelUpload(c *gin.Context) {
	h.logger.Debug("http excel upload")

	limit := int64(maxUploadSize + multipartOverhead)
	if c.Request.ContentLength > limit {
		h.writeError(c, incidenterrors.ErrFileTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, incidenterrors.ErrFileTooLarge)
			return
		}
		h.writeError(c, incidenterrors.ErrFileRequired)
		return
	}
	if fh.Size > maxUploadSize {
		h.writeError(c, incidenterrors.ErrFileTooLarge)
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		h.writeError(c, incidenterrors.ErrUnsupportedFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	rows, total, err := spreadsheet.ReadIncidentRows(f)
	if err != nil {
		h.logger.Warn("excel upload unreadable", zap.String("filename", fh.Filename), zap.Error(err))
		if errors.Is(err, spreadsheet.ErrNoWorksheet) {
			h.writeError(c, incidenterrors.ErrInvalidSpreadsheet)
			return
		}
		h.writeError(c, apperror.Wrap(err, apperror.CodeInvalidInput, "Failed to read Excel file", http.StatusBadRequest))
		return
	}

	resp, err := h.service.Import(c.Request.Context(), rows, total)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExcelExport(c *gin.Context) {
	h.logger.Debug("http excel export")

	rows, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteIncidents(&buf, rows); err != nil {
		h.logger.Error("excel export render failed", zap.Error(err))
		h.writeError(c, err)
		return
	}
	h.attachment(c, "incident-reports.xlsx", buf.Bytes())
}

func (h *Handler) ExcelTemplate(c *gin.Context) {
	h.logger.Debug("http excel template")

	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf, time.Now()); err != nil {
		h.logger.Error("excel template render failed", zap.Error(err))
		h.writeError(c, err)
		return
	}
	h.attachment(c, "incident-template.xlsx", buf.Bytes())
}

func (h *Handler) attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, data)
}

func (h *Handler) GetIncidentTypes(c *gin.Context) {
	h.logger.Debug("http get incident types")
	response.Success(c, http.StatusOK, IncidentTypes(), nil)
}

// IncidentTypes daftar pilihan untuk form incident di web client.
func IncidentTypes() IncidentTypesResponse {
	resp := IncidentTypesResponse{
		TypesByCategory: make(map[string][]string),
		Points:          make(map[string]decimal.Decimal),
		Locations:       Locations,
		Severities:      Severities,
		Statuses:        Statuses,
		Reporters:       Reporters,
	}
	for _, cat := range pointsrule.Categories() {
		resp.Categories = append(resp.Categories, string(cat))
	}
	for cat, types := range pointsrule.TypesByCategory() {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
			resp.Points[string(t)] = pointsrule.PointsFor(t)
		}
		resp.TypesByCategory[string(cat)] = names
	}
	return resp
}

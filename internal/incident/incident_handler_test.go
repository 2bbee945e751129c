package incident_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go-incident-tracker/internal/incident"
	incidenterrors "go-incident-tracker/internal/incident/errors"
	incidentMock "go-incident-tracker/internal/incident/mock"
	"go-incident-tracker/internal/shared/apperror"
	"go-incident-tracker/internal/spreadsheet"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := apperror.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newHandlerContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newUploadContext(t *testing.T, field, filename string, data []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/excel/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req
	return c, w
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestIncidentHandler_Create(t *testing.T) {
	emplID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := incidentMock.NewMockService(ctrl)
		h := incident.NewHandler(svc)

		svc.EXPECT().
			Create(gomock.Any(), incident.CreateIncidentRequest{EmployeeID: emplID, IncidentType: "Tardiness"}).
			Return(incident.CreateIncidentResponse{
				Incident:         incident.IncidentResponse{ReportNumber: "INC-000001"},
				NotificationSent: true,
			}, nil)

		c, w := newHandlerContext(http.MethodPost, "/api/v1/incidents",
			`{"employee_id":"`+emplID+`","incident_type":"Tardiness"}`)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"notification_sent":true`)
	})

	t.Run("unknown type rejected at binding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newHandlerContext(http.MethodPost, "/api/v1/incidents",
			`{"employee_id":"`+emplID+`","incident_type":"Napping"}`)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("missing employee id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newHandlerContext(http.MethodPost, "/api/v1/incidents", `{"incident_type":"Absence"}`)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIncidentHandler_GetById(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := incidentMock.NewMockService(ctrl)
	h := incident.NewHandler(svc)

	id := uuid.NewString()
	svc.EXPECT().GetByID(gomock.Any(), id).Return(incident.IncidentResponse{}, incidenterrors.ErrIncidentNotFound)

	c, w := newHandlerContext(http.MethodGet, "/api/v1/incidents/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.GetById(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}

func TestIncidentHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := incidentMock.NewMockService(ctrl)
	h := incident.NewHandler(svc)

	id := uuid.NewString()
	svc.EXPECT().Delete(gomock.Any(), id).Return(incident.DeleteIncidentResponse{
		Message:          "Incident report deleted",
		PointsSubtracted: pts("5"),
		EmployeeName:     "Barret",
	}, nil)

	c, w := newHandlerContext(http.MethodDelete, "/api/v1/incidents/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Barret")
}

func TestIncidentHandler_ExcelUpload(t *testing.T) {
	var workbook bytes.Buffer
	require.NoError(t, spreadsheet.WriteTemplate(&workbook, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))

	t.Run("imports rows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := incidentMock.NewMockService(ctrl)
		h := incident.NewHandler(svc)

		svc.EXPECT().Import(gomock.Any(), gomock.Len(1), 1).Return(incident.ImportResponse{
			Message:       "Successfully imported 1 incidents from Excel file",
			ImportedCount: 1,
			TotalRows:     1,
		}, nil)

		c, w := newUploadContext(t, "excelFile", "incidents.xlsx", workbook.Bytes())
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"imported_count":1`)
	})

	t.Run("missing file", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "", "", nil)
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file uploaded", decode(t, w).Error.Message)
	})

	t.Run("wrong extension", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "excelFile", "incidents.csv", []byte("a,b"))
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Only Excel (.xlsx) files are allowed", decode(t, w).Error.Message)
	})

	t.Run("too large", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "excelFile", "big.xlsx", make([]byte, 5<<20+1))
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File exceeds the 5MB limit", decode(t, w).Error.Message)
	})

	t.Run("oversized body rejected before parsing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "excelFile", "huge.xlsx", make([]byte, 7<<20))
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File exceeds the 5MB limit", decode(t, w).Error.Message)
		assert.Nil(t, c.Request.MultipartForm)
	})

	t.Run("oversized body without content length", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "excelFile", "huge.xlsx", make([]byte, 7<<20))
		c.Request.ContentLength = -1
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "File exceeds the 5MB limit", decode(t, w).Error.Message)
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := incident.NewHandler(incidentMock.NewMockService(ctrl))

		c, w := newUploadContext(t, "excelFile", "broken.xlsx", []byte("not a zip"))
		h.ExcelUpload(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIncidentHandler_ExcelExport(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := incidentMock.NewMockService(ctrl)
	h := incident.NewHandler(svc)

	svc.EXPECT().Export(gomock.Any()).Return([]spreadsheet.ExportRow{{
		ID:           uuid.NewString(),
		ReportNumber: "INC-000001",
		Title:        "Late",
		Points:       pts("0.5"),
	}}, nil)

	c, w := newHandlerContext(http.MethodGet, "/api/v1/excel/export", "")
	h.ExcelExport(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "incident-reports.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestIncidentHandler_ExcelTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := incident.NewHandler(incidentMock.NewMockService(ctrl))

	c, w := newHandlerContext(http.MethodGet, "/api/v1/excel/template", "")
	h.ExcelTemplate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "incident-template.xlsx")

	rows, total, err := spreadsheet.ReadIncidentRows(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Tardiness", rows[0].IncidentType)
}

func TestIncidentTypes(t *testing.T) {
	types := incident.IncidentTypes()

	assert.Equal(t, []string{"Attendance", "Appearance", "Cashiering", "Performance", "Project Sheet"}, types.Categories)
	assert.Contains(t, types.TypesByCategory["Attendance"], "Tardiness")
	assert.True(t, types.Points["Drawer Discrepancy (over $99)"].Equal(pts("20")))
	assert.Len(t, types.Reporters, 9)
	assert.Len(t, types.Locations, 10)
}

package employee_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-incident-tracker/internal/employee"
	employeeerrors "go-incident-tracker/internal/employee/errors"
	employeeMock "go-incident-tracker/internal/employee/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newHandlerContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)

		svc.EXPECT().
			Create(gomock.Any(), employee.CreateEmployeeRequest{Name: "Yuffie", Email: "yuffie@company.com"}).
			Return(employee.EmployeeResponse{ID: uuid.NewString(), Name: "Yuffie", Status: "Active"}, nil)

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees", `{"name":"Yuffie","email":"yuffie@company.com"}`)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Yuffie")
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := employee.NewHandler(employeeMock.NewMockService(ctrl))

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees", `{"name":"Yuffie","email":"not-an-email"}`)
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNameTaken)

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees", `{"name":"Yuffie","email":"yuffie@company.com"}`)
		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", decode(t, w).Error.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	list := []employee.EmployeeResponse{
		{ID: "1", Name: "Aerith", Email: "aerith@company.com"},
		{ID: "2", Name: "Barret", Email: "barret@company.com"},
		{ID: "3", Name: "Cloud", Email: "cloud@company.com"},
	}

	t.Run("unpaginated returns everything", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)
		svc.EXPECT().GetAll(gomock.Any()).Return(list, nil)

		c, w := newHandlerContext(http.MethodGet, "/api/v1/employees", "")
		h.GetAll(c)

		var got []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Len(t, got, 3)
	})

	t.Run("search and paginate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)
		svc.EXPECT().GetAll(gomock.Any()).Return(list, nil)

		c, w := newHandlerContext(http.MethodGet, "/api/v1/employees?q=r&page=2&page_size=1", "")
		h.GetAll(c)

		var got []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Barret", got[0].Name)
		assert.Contains(t, w.Body.String(), `"total":2`)
	})
}

func TestEmployeeHandler_AddPoints(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)
		id := uuid.NewString()

		svc.EXPECT().
			AddPoints(gomock.Any(), id, gomock.Any()).
			DoAndReturn(func(_ any, _ string, req employee.AddPointsRequest) (employee.AddPointsResponse, error) {
				require.NotNil(t, req.Points)
				assert.Equal(t, "2.5", req.Points.String())
				return employee.AddPointsResponse{NotificationSent: true}, nil
			})

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees/"+id+"/add-points", `{"points":2.5}`)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.AddPoints(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"notification_sent":true`)
	})

	t.Run("malformed body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := employee.NewHandler(employeeMock.NewMockService(ctrl))

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees/x/add-points", `{"points":"lots"}`)
		c.Params = gin.Params{{Key: "id", Value: "x"}}
		h.AddPoints(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		h := employee.NewHandler(svc)
		id := uuid.NewString()

		svc.EXPECT().AddPoints(gomock.Any(), id, gomock.Any()).Return(employee.AddPointsResponse{}, employeeerrors.ErrEmployeeNotFound)

		c, w := newHandlerContext(http.MethodPost, "/api/v1/employees/"+id+"/add-points", `{"points":1}`)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.AddPoints(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeHandler_ResetPoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	h := employee.NewHandler(svc)
	id := uuid.NewString()

	svc.EXPECT().ResetPoints(gomock.Any(), id).Return(employee.ResetPointsResponse{Message: "Points reset for Tifa"}, nil)

	c, w := newHandlerContext(http.MethodPost, "/api/v1/employees/"+id+"/reset-points", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.ResetPoints(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Points reset for Tifa")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	h := employee.NewHandler(svc)

	svc.EXPECT().Delete(gomock.Any(), "bad").Return(employeeerrors.ErrInvalidEmployeeID)

	c, w := newHandlerContext(http.MethodDelete, "/api/v1/employees/bad", "")
	c.Params = gin.Params{{Key: "id", Value: "bad"}}
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

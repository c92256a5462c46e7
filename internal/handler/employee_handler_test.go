package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "staffhub/internal/errors"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/internal/service"
)

type stubEmployeeService struct {
	createFn func(ctx context.Context, params service.EmployeeCreate) (*model.Employee, error)
	getFn    func(ctx context.Context, id uint) (*model.Employee, error)
	listFn   func(ctx context.Context, filter repository.EmployeeFilter, page, limit int) (*service.EmployeePage, error)
	updateFn func(ctx context.Context, id uint, update service.EmployeeUpdate) (*model.Employee, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubEmployeeService) CreateEmployee(ctx context.Context, params service.EmployeeCreate) (*model.Employee, error) {
	return s.createFn(ctx, params)
}

func (s *stubEmployeeService) GetEmployee(ctx context.Context, id uint) (*model.Employee, error) {
	return s.getFn(ctx, id)
}

func (s *stubEmployeeService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter, page, limit int) (*service.EmployeePage, error) {
	return s.listFn(ctx, filter, page, limit)
}

func (s *stubEmployeeService) UpdateEmployee(ctx context.Context, id uint, update service.EmployeeUpdate) (*model.Employee, error) {
	return s.updateFn(ctx, id, update)
}

func (s *stubEmployeeService) DeleteEmployee(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEmployeeHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, params service.EmployeeCreate) (*model.Employee, error) {
			assert.Equal(t, "John Doe", params.Name)
			assert.Equal(t, "john@example.com", params.Email)
			return &model.Employee{
				ID:         1,
				Name:       params.Name,
				Email:      params.Email,
				Department: params.Department,
				Role:       params.Role,
				DateJoined: time.Now().UTC(),
			}, nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/api/employees/",
		`{"name":"John Doe","email":"john@example.com","department":"Engineering","role":"Developer"}`)

	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "John Doe", resp["name"])
	assert.Contains(t, resp, "id")
	assert.Contains(t, resp, "date_joined")
}

func TestEmployeeHandler_Create_ValidationFailure(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, params service.EmployeeCreate) (*model.Employee, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, _ := jsonRequest(e, http.MethodPost, "/api/employees/", `{"name":"X","email":"not-an-email"}`)

	err := h.Create(c)
	var ve *apperrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEmployeeHandler_Create_MalformedBody(t *testing.T) {
	e := newTestEcho()
	h := NewEmployeeHandler(&stubEmployeeService{})

	c, _ := jsonRequest(e, http.MethodPost, "/api/employees/", `not-json`)

	err := h.Create(c)
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestEmployeeHandler_List_PassesQueryParams(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		listFn: func(ctx context.Context, filter repository.EmployeeFilter, page, limit int) (*service.EmployeePage, error) {
			assert.Equal(t, "eng", filter.Department)
			assert.Equal(t, "dev", filter.Role)
			assert.Equal(t, "john", filter.Search)
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, limit)
			return &service.EmployeePage{Total: 15, Page: page, Limit: limit, Employees: []model.Employee{}}, nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := jsonRequest(e, http.MethodGet,
		"/api/employees/?page=2&limit=5&department=eng&role=dev&search=john", "")

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(15), resp["total"])
	assert.Equal(t, float64(2), resp["page"])
	assert.Equal(t, float64(5), resp["limit"])
	assert.Contains(t, resp, "employees")
}

func TestEmployeeHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		getFn: func(ctx context.Context, id uint) (*model.Employee, error) {
			return nil, apperrors.ErrEmployeeNotFound
		},
	}
	h := NewEmployeeHandler(stub)

	c, _ := jsonRequest(e, http.MethodGet, "/api/employees/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.Get(c)
	assert.ErrorIs(t, err, apperrors.ErrEmployeeNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.MapErrorToHTTP(err).StatusCode)
}

func TestEmployeeHandler_Get_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewEmployeeHandler(&stubEmployeeService{})

	c, _ := jsonRequest(e, http.MethodGet, "/api/employees/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestEmployeeHandler_Update_PartialFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		updateFn: func(ctx context.Context, id uint, update service.EmployeeUpdate) (*model.Employee, error) {
			assert.Equal(t, uint(1), id)
			assert.Nil(t, update.Name)
			assert.Nil(t, update.Email)
			assert.Nil(t, update.Role)
			if assert.NotNil(t, update.Department) {
				assert.Equal(t, "Platform", *update.Department)
			}
			return &model.Employee{ID: 1, Name: "John", Email: "john@example.com", Department: "Platform"}, nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := jsonRequest(e, http.MethodPut, "/api/employees/1", `{"department":"Platform"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmployeeHandler_Update_NullClearsOptionalField(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		updateFn: func(ctx context.Context, id uint, update service.EmployeeUpdate) (*model.Employee, error) {
			if assert.NotNil(t, update.Department) {
				assert.Equal(t, "", *update.Department)
			}
			return &model.Employee{ID: 1}, nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, _ := jsonRequest(e, http.MethodPut, "/api/employees/1", `{"department":null}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.Update(c))
}

func TestEmployeeHandler_Update_NullNameRejected(t *testing.T) {
	e := newTestEcho()
	h := NewEmployeeHandler(&stubEmployeeService{})

	c, _ := jsonRequest(e, http.MethodPut, "/api/employees/1", `{"name":null}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.Update(c)
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestEmployeeHandler_Delete(t *testing.T) {
	e := newTestEcho()
	deleted := uint(0)
	stub := &stubEmployeeService{
		deleteFn: func(ctx context.Context, id uint) error {
			deleted = id
			return nil
		},
	}
	h := NewEmployeeHandler(stub)

	c, rec := jsonRequest(e, http.MethodDelete, "/api/employees/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(7), deleted)
	assert.Empty(t, rec.Body.String())
}

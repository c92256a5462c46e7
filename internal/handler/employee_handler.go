package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "staffhub/internal/errors"
	"staffhub/internal/repository"
	"staffhub/internal/service"
)

// EmployeeHandler handles the employee CRUD endpoints.
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// EmployeeCreateRequest represents an employee creation request.
type EmployeeCreateRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email,max=100"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Role       string `json:"role" validate:"omitempty,max=100"`
}

// EmployeeUpdateRequest is a partial employee mutation. Its unmarshaller
// records which keys were present: an omitted field keeps its prior value,
// an explicit null clears department/role and is rejected for name/email.
type EmployeeUpdateRequest struct {
	Name       *string `validate:"omitempty,max=100"`
	Email      *string `validate:"omitempty,email,max=100"`
	Department *string `validate:"omitempty,max=100"`
	Role       *string `validate:"omitempty,max=100"`
}

// UnmarshalJSON implements presence-aware decoding.
func (r *EmployeeUpdateRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := decodeOptionalString(raw, "name", &r.Name, false); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "email", &r.Email, false); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "department", &r.Department, true); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "role", &r.Role, true); err != nil {
		return err
	}
	return nil
}

// Create godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmployeeCreateRequest true "Employee data"
// @Success 201 {object} model.Employee
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req EmployeeCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	employee, err := h.employeeService.CreateEmployee(c.Request().Context(), service.EmployeeCreate{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, employee)
}

// List godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Param department query string false "Department substring filter"
// @Param role query string false "Role substring filter"
// @Param search query string false "Substring match on name or email"
// @Success 200 {object} service.EmployeePage
// @Failure 401 {object} errors.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	filter := repository.EmployeeFilter{
		Department: c.QueryParam("department"),
		Role:       c.QueryParam("role"),
		Search:     c.QueryParam("search"),
	}

	result, err := h.employeeService.ListEmployees(c.Request().Context(), filter, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get employee by id
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} model.Employee
// @Failure 404 {object} errors.ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	employee, err := h.employeeService.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

// Update godoc
// @Summary Update an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Param request body EmployeeUpdateRequest true "Fields to change"
// @Success 200 {object} model.Employee
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req EmployeeUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	employee, err := h.employeeService.UpdateEmployee(c.Request().Context(), id, service.EmployeeUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete an employee
// @Tags employees
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.ErrorResponse
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.employeeService.DeleteEmployee(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

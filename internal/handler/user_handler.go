package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "staffhub/internal/errors"
	"staffhub/internal/service"
)

// UserHandler handles the superuser-gated administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserUpdateRequest is a partial user mutation. Its unmarshaller records
// which keys were present so that an omitted field and an explicit null are
// distinguishable: null clears full_name and is rejected everywhere else.
type UserUpdateRequest struct {
	Username    *string `validate:"omitempty,min=3,max=50"`
	Email       *string `validate:"omitempty,email"`
	Password    *string `validate:"omitempty"`
	FullName    *string `validate:"omitempty,max=255"`
	FullNameSet bool    `validate:"-"`
	IsActive    *bool   `validate:"-"`
	IsSuperuser *bool   `validate:"-"`
}

// UnmarshalJSON implements presence-aware decoding.
func (r *UserUpdateRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := decodeOptionalString(raw, "username", &r.Username, false); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "email", &r.Email, false); err != nil {
		return err
	}
	if err := decodeOptionalString(raw, "password", &r.Password, false); err != nil {
		return err
	}
	if v, ok := raw["full_name"]; ok {
		r.FullNameSet = true
		if !isJSONNull(v) {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("full_name: %w", err)
			}
			r.FullName = &s
		}
	}
	if err := decodeOptionalBool(raw, "is_active", &r.IsActive); err != nil {
		return err
	}
	if err := decodeOptionalBool(raw, "is_superuser", &r.IsSuperuser); err != nil {
		return err
	}
	return nil
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, err := h.userService.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UserUpdateRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, service.UserUpdate{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		FullNameSet: req.FullNameSet,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func isJSONNull(v json.RawMessage) bool {
	return string(v) == "null"
}

// decodeOptionalString decodes a possibly-absent string key. When nullable
// is false an explicit null is rejected.
func decodeOptionalString(raw map[string]json.RawMessage, key string, dst **string, nullable bool) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if isJSONNull(v) {
		if !nullable {
			return fmt.Errorf("%s cannot be null", key)
		}
		empty := ""
		*dst = &empty
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = &s
	return nil
}

func decodeOptionalBool(raw map[string]json.RawMessage, key string, dst **bool) error {
	v, ok := raw[key]
	if !ok || isJSONNull(v) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = &b
	return nil
}

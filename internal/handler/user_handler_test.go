package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"staffhub/internal/model"
	"staffhub/internal/service"
)

type stubUserService struct {
	getFn    func(ctx context.Context, id uint) (*model.User, error)
	listFn   func(ctx context.Context, page, limit int) ([]model.User, error)
	updateFn func(ctx context.Context, id uint, update service.UserUpdate) (*model.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context, page, limit int) ([]model.User, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id uint, update service.UserUpdate) (*model.User, error) {
	return s.updateFn(ctx, id, update)
}

func TestUserHandler_Update_DistinguishesNullFromOmitted(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		verify func(t *testing.T, update service.UserUpdate)
	}{
		{
			name: "omitted full_name untouched",
			body: `{"email":"new@example.com"}`,
			verify: func(t *testing.T, update service.UserUpdate) {
				assert.False(t, update.FullNameSet)
				assert.Nil(t, update.FullName)
				if assert.NotNil(t, update.Email) {
					assert.Equal(t, "new@example.com", *update.Email)
				}
			},
		},
		{
			name: "explicit null clears full_name",
			body: `{"full_name":null}`,
			verify: func(t *testing.T, update service.UserUpdate) {
				assert.True(t, update.FullNameSet)
				assert.Nil(t, update.FullName)
			},
		},
		{
			name: "full_name value set",
			body: `{"full_name":"Alice A."}`,
			verify: func(t *testing.T, update service.UserUpdate) {
				assert.True(t, update.FullNameSet)
				if assert.NotNil(t, update.FullName) {
					assert.Equal(t, "Alice A.", *update.FullName)
				}
			},
		},
		{
			name: "flags decoded",
			body: `{"is_active":false,"is_superuser":true}`,
			verify: func(t *testing.T, update service.UserUpdate) {
				if assert.NotNil(t, update.IsActive) {
					assert.False(t, *update.IsActive)
				}
				if assert.NotNil(t, update.IsSuperuser) {
					assert.True(t, *update.IsSuperuser)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			var captured service.UserUpdate
			stub := &stubUserService{
				updateFn: func(ctx context.Context, id uint, update service.UserUpdate) (*model.User, error) {
					captured = update
					return &model.User{ID: id}, nil
				},
			}
			h := NewUserHandler(stub)

			c, rec := jsonRequest(e, http.MethodPut, "/api/users/1", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("1")

			assert.NoError(t, h.Update(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			tt.verify(t, captured)
		})
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, page, limit int) ([]model.User, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 20, limit)
			return []model.User{{ID: 21, Username: "u21"}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := jsonRequest(e, http.MethodGet, "/api/users/?page=2&limit=20", "")

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u21")
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

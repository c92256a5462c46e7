package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"staffhub/internal/auth"
	apperrors "staffhub/internal/errors"
	"staffhub/internal/model"
	"staffhub/internal/service"
)

type stubAuthService struct {
	currentUserFn func(ctx context.Context, username string) (*model.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, params service.RegisterParams) (*model.User, error) {
	panic("not used")
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	panic("not used")
}

func (s *stubAuthService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	return s.currentUserFn(ctx, username)
}

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func claimsFor(username string) *auth.Claims {
	svc := auth.NewJWTService("test-secret", 0)
	token, _ := svc.GenerateToken(username)
	claims, _ := svc.ValidateToken(token)
	return claims
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestPrincipal_ActiveUser(t *testing.T) {
	c, rec := newTestContext(t)
	c.Set("user", claimsFor("alice"))

	stub := &stubAuthService{
		currentUserFn: func(ctx context.Context, username string) (*model.User, error) {
			assert.Equal(t, "alice", username)
			return &model.User{ID: 1, Username: "alice", IsActive: true}, nil
		},
	}

	err := Principal(stub)(okHandler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	user, ok := CurrentPrincipal(c)
	assert.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestPrincipal_InactiveUser(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user", claimsFor("bob"))

	stub := &stubAuthService{
		currentUserFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, apperrors.ErrInactiveUser
		},
	}

	err := Principal(stub)(okHandler)(c)
	assert.ErrorIs(t, err, apperrors.ErrInactiveUser)
}

func TestPrincipal_MissingClaims(t *testing.T) {
	c, _ := newTestContext(t)

	stub := &stubAuthService{
		currentUserFn: func(ctx context.Context, username string) (*model.User, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}

	err := Principal(stub)(okHandler)(c)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRequireSuperuser(t *testing.T) {
	tests := []struct {
		name      string
		principal *model.User
		wantErr   error
	}{
		{"superuser passes", &model.User{IsActive: true, IsSuperuser: true}, nil},
		{"active non-superuser forbidden", &model.User{IsActive: true}, apperrors.ErrForbidden},
		{"no principal forbidden", nil, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			if tt.principal != nil {
				SetPrincipal(c, tt.principal)
			}

			err := RequireSuperuser()(okHandler)(c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"staffhub/internal/auth"
	apperrors "staffhub/internal/errors"
	"staffhub/internal/model"
	"staffhub/internal/service"
)

const principalKey = "principal"

// Principal resolves the verified token subject to a live user record and
// stores it on the context. Requests carrying a token for a missing or
// deactivated user are rejected before any handler runs.
func Principal(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return apperrors.ErrInvalidToken
			}

			user, err := authService.CurrentUser(c.Request().Context(), claims.Subject)
			if err != nil {
				return err
			}

			c.Set(principalKey, user)
			return next(c)
		}
	}
}

// RequireSuperuser gates user-administration routes. Any non-superuser
// principal is rejected regardless of active status.
func RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(principalKey).(*model.User)
			if !ok || !user.IsSuperuser {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// CurrentPrincipal returns the user resolved by the Principal middleware.
func CurrentPrincipal(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(principalKey).(*model.User)
	return user, ok
}

// SetPrincipal stores a principal on the context. Exported for handler tests.
func SetPrincipal(c echo.Context, user *model.User) {
	c.Set(principalKey, user)
}

package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "staffhub/internal/errors"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to their fixed status codes, lets Echo's own HTTP errors pass
// through, and logs anything unexpected while returning a generic body.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, apperrors.ErrorResponse{
				Error: fmt.Sprintf("%v", he.Message),
				Code:  http.StatusText(he.Code),
			})
			return
		}

		httpErr := apperrors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chd/chd/internal/platform/apperr"
)

// ErrorBody is the uniform error envelope.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// ErrorStatus maps err to the HTTP status it is rendered with.
func ErrorStatus(err error) int {
	if ae, ok := apperr.As(err); ok {
		return ae.Status()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func errorDetail(err error) string {
	if ae, ok := apperr.As(err); ok {
		return ae.Detail()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
		return fmt.Sprint(he.Message)
	}
	return "internal server error"
}

// HTTPErrorHandler renders every error returned by a handler or middleware as
// {"detail": "..."} with the mapped status.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := ErrorStatus(err)
		if status >= 500 {
			logger.Error().Err(err).
				Str("request_id", GetRequestID(c)).
				Int("status", status).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, ErrorBody{Detail: errorDetail(err)})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("writing error response")
		}
	}
}

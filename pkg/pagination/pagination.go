package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chd/chd/internal/platform/apperr"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Params holds skip/limit pagination extracted from a request.
type Params struct {
	Skip  int
	Limit int
}

// FromContext reads ?skip and ?limit. Missing values take the defaults; values
// that are not integers, a negative skip, or a limit outside [1, MaxLimit] are
// validation errors.
func FromContext(c echo.Context) (Params, error) {
	p := Params{Skip: 0, Limit: DefaultLimit}

	if raw := c.QueryParam("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Validation("skip must be an integer")
		}
		if skip < 0 {
			return p, apperr.Validation("skip must be greater than or equal to 0")
		}
		p.Skip = skip
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Validation("limit must be an integer")
		}
		if limit < 1 || limit > MaxLimit {
			return p, apperr.Validation("limit must be between 1 and %d", MaxLimit)
		}
		p.Limit = limit
	}

	return p, nil
}

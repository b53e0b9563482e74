package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chd/chd/internal/platform/apperr"
	"github.com/chd/chd/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg, err := pagination.FromContext(c)
	if err != nil {
		return err
	}
	f, err := FilterFromContext(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListPatients(c.Request().Context(), f, pg.Skip, pg.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// FilterFromContext parses the record filter query parameters.
func FilterFromContext(c echo.Context) (Filter, error) {
	var f Filter
	var err error
	if f.AgeMin, err = optionalInt(c, "age_min"); err != nil {
		return f, err
	}
	if f.AgeMax, err = optionalInt(c, "age_max"); err != nil {
		return f, err
	}
	if f.CHDStatus, err = optionalInt(c, "chd_status"); err != nil {
		return f, err
	}
	if f.Gender, err = optionalInt(c, "gender"); err != nil {
		return f, err
	}
	f.BPRange = BPRange(c.QueryParam("bp_range"))
	f.Search = c.QueryParam("search")
	return f, ValidateFilter(f)
}

func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", name)
	}
	return &v, nil
}

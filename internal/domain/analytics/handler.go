package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chd/chd/internal/domain/patient"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dataset/stats", h.GetDatasetStats)

	viz := api.Group("/visualizations")
	viz.GET("/blood-pressure-distribution", h.GetBloodPressureDistribution)
	viz.GET("/blood-pressure-boxplot", h.GetBloodPressureBoxPlot)
	viz.GET("/age-histogram", h.GetAgeHistogram)
	viz.GET("/histogram/:field", h.GetHistogram)
	viz.GET("/violin-plot", h.GetViolinPlot)
}

func (h *Handler) GetDatasetStats(c echo.Context) error {
	out, err := h.svc.DatasetStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetBloodPressureDistribution(c echo.Context) error {
	out, err := h.svc.BloodPressureDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetBloodPressureBoxPlot(c echo.Context) error {
	out, err := h.svc.BloodPressureBoxPlot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetAgeHistogram(c echo.Context) error {
	out, err := h.svc.Histogram(c.Request().Context(), patient.FieldAge)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetHistogram(c echo.Context) error {
	out, err := h.svc.Histogram(c.Request().Context(), patient.Field(c.Param("field")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetViolinPlot(c echo.Context) error {
	out, err := h.svc.ViolinPlot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

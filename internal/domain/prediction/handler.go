package prediction

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chd/chd/internal/platform/apperr"
	"github.com/chd/chd/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/predict", h.Predict)
	api.GET("/model/info", h.GetModelInfo)
}

// predictRequest uses pointers so absent fields can be told apart from zeros.
type predictRequest struct {
	Male            *int     `json:"male"`
	Age             *int     `json:"age"`
	Education       *int     `json:"education"`
	CurrentSmoker   *int     `json:"currentSmoker"`
	CigsPerDay      *float64 `json:"cigsPerDay"`
	BPMeds          *int     `json:"BPMeds"`
	PrevalentStroke *int     `json:"prevalentStroke"`
	PrevalentHyp    *int     `json:"prevalentHyp"`
	Diabetes        *int     `json:"diabetes"`
	TotChol         *float64 `json:"totChol"`
	SysBP           *float64 `json:"sysBP"`
	DiaBP           *float64 `json:"diaBP"`
	BMI             *float64 `json:"BMI"`
	HeartRate       *float64 `json:"heartRate"`
	Glucose         *float64 `json:"glucose"`
}

func (r *predictRequest) toInput() (Input, error) {
	var in Input
	var missing []string
	ints := []struct {
		name string
		src  *int
		dst  *int
	}{
		{"male", r.Male, &in.Male},
		{"age", r.Age, &in.Age},
		{"education", r.Education, &in.Education},
		{"currentSmoker", r.CurrentSmoker, &in.CurrentSmoker},
		{"BPMeds", r.BPMeds, &in.BPMeds},
		{"prevalentStroke", r.PrevalentStroke, &in.PrevalentStroke},
		{"prevalentHyp", r.PrevalentHyp, &in.PrevalentHyp},
		{"diabetes", r.Diabetes, &in.Diabetes},
	}
	for _, f := range ints {
		if f.src == nil {
			missing = append(missing, f.name)
			continue
		}
		*f.dst = *f.src
	}
	floats := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"cigsPerDay", r.CigsPerDay, &in.CigsPerDay},
		{"totChol", r.TotChol, &in.TotChol},
		{"sysBP", r.SysBP, &in.SysBP},
		{"diaBP", r.DiaBP, &in.DiaBP},
		{"BMI", r.BMI, &in.BMI},
		{"heartRate", r.HeartRate, &in.HeartRate},
		{"glucose", r.Glucose, &in.Glucose},
	}
	for _, f := range floats {
		if f.src == nil {
			missing = append(missing, f.name)
			continue
		}
		*f.dst = *f.src
	}
	if len(missing) > 0 {
		return Input{}, apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return in, nil
}

func (h *Handler) Predict(c echo.Context) error {
	var req predictRequest
	if err := c.Bind(&req); err != nil {
		if he, ok := middleware.BodyTooLarge(err); ok {
			return he
		}
		return apperr.Validation("invalid request body")
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	result, err := h.svc.Predict(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Info())
}

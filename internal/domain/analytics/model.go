package analytics

import "github.com/chd/chd/internal/domain/patient"

// Group labels used as keys of every per-outcome payload.
const (
	LabelCHD   = "CHD"
	LabelNoCHD = "No CHD"
)

// HistogramBins is the fixed number of histogram bins.
const HistogramBins = 20

// KeyVariables are the fields offered for charting.
var KeyVariables = []patient.Field{
	patient.FieldAge,
	patient.FieldSysBP,
	patient.FieldDiaBP,
	patient.FieldBMI,
	patient.FieldTotChol,
	patient.FieldHeartRate,
	patient.FieldGlucose,
}

// GroupLabel maps an outcome label to its display key.
func GroupLabel(outcome int) string {
	if outcome == patient.OutcomePositive {
		return LabelCHD
	}
	return LabelNoCHD
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type DatasetStats struct {
	TotalPatients int      `json:"total_patients"`
	CHDPositive   int      `json:"chd_positive"`
	CHDNegative   int      `json:"chd_negative"`
	AgeRange      Range    `json:"age_range"`
	BPStats       Range    `json:"bp_stats"`
	KeyVariables  []string `json:"key_variables"`
}

type BoxStats struct {
	Q1       float64   `json:"q1"`
	Q2       float64   `json:"q2"`
	Q3       float64   `json:"q3"`
	IQR      float64   `json:"iqr"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

type Moments struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Skewness float64 `json:"skewness"`
	Total    int     `json:"total"`
}

type HistogramStats struct {
	Field  string    `json:"field"`
	Counts []int     `json:"counts"`
	Bins   []float64 `json:"bins"`
	Stats  Moments   `json:"stats"`
}

type ViolinGroup struct {
	SysBP []float64 `json:"sysBP"`
	Age   []float64 `json:"age"`
	BMI   []float64 `json:"BMI"`
}

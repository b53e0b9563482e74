package prediction

import "github.com/chd/chd/internal/domain/patient"

// Input is one complete feature vector: every patient field except the id and
// the outcome label.
type Input struct {
	Male            int     `json:"male"`
	Age             int     `json:"age"`
	Education       int     `json:"education"`
	CurrentSmoker   int     `json:"currentSmoker"`
	CigsPerDay      float64 `json:"cigsPerDay"`
	BPMeds          int     `json:"BPMeds"`
	PrevalentStroke int     `json:"prevalentStroke"`
	PrevalentHyp    int     `json:"prevalentHyp"`
	Diabetes        int     `json:"diabetes"`
	TotChol         float64 `json:"totChol"`
	SysBP           float64 `json:"sysBP"`
	DiaBP           float64 `json:"diaBP"`
	BMI             float64 `json:"BMI"`
	HeartRate       float64 `json:"heartRate"`
	Glucose         float64 `json:"glucose"`
}

// Validate applies the patient record invariants to the feature vector.
func (in Input) Validate() error {
	p := in.patient()
	p.ID = "input"
	return p.Validate()
}

// Feature returns the value of a named feature column.
func (in Input) Feature(name string) (float64, bool) {
	f := patient.Field(name)
	if !f.Valid() || f == patient.FieldTenYearCHD {
		return 0, false
	}
	return f.Value(in.patient()), true
}

func (in Input) patient() *patient.Patient {
	return &patient.Patient{
		Male:            in.Male,
		Age:             in.Age,
		Education:       in.Education,
		CurrentSmoker:   in.CurrentSmoker,
		CigsPerDay:      in.CigsPerDay,
		BPMeds:          in.BPMeds,
		PrevalentStroke: in.PrevalentStroke,
		PrevalentHyp:    in.PrevalentHyp,
		Diabetes:        in.Diabetes,
		TotChol:         in.TotChol,
		SysBP:           in.SysBP,
		DiaBP:           in.DiaBP,
		BMI:             in.BMI,
		HeartRate:       in.HeartRate,
		Glucose:         in.Glucose,
	}
}

type Result struct {
	Prediction  int      `json:"prediction"`
	Probability float64  `json:"probability"`
	RiskLevel   string   `json:"risk_level"`
	RiskFactors []string `json:"risk_factors"`
}

const (
	StatusLoaded    = "Model loaded"
	StatusNotLoaded = "Model not loaded"
)

type Info struct {
	Status           string   `json:"status"`
	ModelType        string   `json:"model_type,omitempty"`
	PreprocessorType string   `json:"preprocessor_type,omitempty"`
	Features         []string `json:"features,omitempty"`
	Version          string   `json:"version,omitempty"`
}

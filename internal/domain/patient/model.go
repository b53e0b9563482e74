package patient

import (
	"fmt"
)

// Outcome labels for TenYearCHD.
const (
	OutcomeNegative = 0
	OutcomePositive = 1
)

// Patient maps to the patients table / collection: one row per individual of
// the cohort. Records are written once by ingestion and never mutated.
type Patient struct {
	ID              string  `db:"id" json:"id" bson:"_id"`
	Male            int     `db:"male" json:"male" bson:"male"`
	Age             int     `db:"age" json:"age" bson:"age"`
	Education       int     `db:"education" json:"education" bson:"education"`
	CurrentSmoker   int     `db:"current_smoker" json:"currentSmoker" bson:"currentSmoker"`
	CigsPerDay      float64 `db:"cigs_per_day" json:"cigsPerDay" bson:"cigsPerDay"`
	BPMeds          int     `db:"bp_meds" json:"BPMeds" bson:"BPMeds"`
	PrevalentStroke int     `db:"prevalent_stroke" json:"prevalentStroke" bson:"prevalentStroke"`
	PrevalentHyp    int     `db:"prevalent_hyp" json:"prevalentHyp" bson:"prevalentHyp"`
	Diabetes        int     `db:"diabetes" json:"diabetes" bson:"diabetes"`
	TotChol         float64 `db:"tot_chol" json:"totChol" bson:"totChol"`
	SysBP           float64 `db:"sys_bp" json:"sysBP" bson:"sysBP"`
	DiaBP           float64 `db:"dia_bp" json:"diaBP" bson:"diaBP"`
	BMI             float64 `db:"bmi" json:"BMI" bson:"BMI"`
	HeartRate       float64 `db:"heart_rate" json:"heartRate" bson:"heartRate"`
	Glucose         float64 `db:"glucose" json:"glucose" bson:"glucose"`
	TenYearCHD      int     `db:"ten_year_chd" json:"TenYearCHD" bson:"TenYearCHD"`
}

// Validate enforces the record invariants: binary flags and outcome label,
// non-negative measurements.
func (p *Patient) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	flags := []struct {
		name  string
		value int
	}{
		{"male", p.Male},
		{"currentSmoker", p.CurrentSmoker},
		{"BPMeds", p.BPMeds},
		{"prevalentStroke", p.PrevalentStroke},
		{"prevalentHyp", p.PrevalentHyp},
		{"diabetes", p.Diabetes},
		{"TenYearCHD", p.TenYearCHD},
	}
	for _, f := range flags {
		if f.value != 0 && f.value != 1 {
			return fmt.Errorf("%s must be 0 or 1, got %d", f.name, f.value)
		}
	}
	if p.Age < 0 || p.Education < 0 {
		return fmt.Errorf("age and education must be non-negative")
	}
	for _, f := range MeasurementFields {
		if f.Value(p) < 0 {
			return fmt.Errorf("%s must be non-negative", f)
		}
	}
	return nil
}

// Field names a numeric patient attribute that can be aggregated. The set is
// closed; store column and key names are derived from it, never from input.
type Field string

const (
	FieldMale            Field = "male"
	FieldAge             Field = "age"
	FieldEducation       Field = "education"
	FieldCurrentSmoker   Field = "currentSmoker"
	FieldCigsPerDay      Field = "cigsPerDay"
	FieldBPMeds          Field = "BPMeds"
	FieldPrevalentStroke Field = "prevalentStroke"
	FieldPrevalentHyp    Field = "prevalentHyp"
	FieldDiabetes        Field = "diabetes"
	FieldTotChol         Field = "totChol"
	FieldSysBP           Field = "sysBP"
	FieldDiaBP           Field = "diaBP"
	FieldBMI             Field = "BMI"
	FieldHeartRate       Field = "heartRate"
	FieldGlucose         Field = "glucose"
	FieldTenYearCHD      Field = "TenYearCHD"
)

// MeasurementFields are the continuous clinical measurements.
var MeasurementFields = []Field{
	FieldCigsPerDay, FieldTotChol, FieldSysBP, FieldDiaBP, FieldBMI, FieldHeartRate, FieldGlucose,
}

var fieldColumns = map[Field]string{
	FieldMale:            "male",
	FieldAge:             "age",
	FieldEducation:       "education",
	FieldCurrentSmoker:   "current_smoker",
	FieldCigsPerDay:      "cigs_per_day",
	FieldBPMeds:          "bp_meds",
	FieldPrevalentStroke: "prevalent_stroke",
	FieldPrevalentHyp:    "prevalent_hyp",
	FieldDiabetes:        "diabetes",
	FieldTotChol:         "tot_chol",
	FieldSysBP:           "sys_bp",
	FieldDiaBP:           "dia_bp",
	FieldBMI:             "bmi",
	FieldHeartRate:       "heart_rate",
	FieldGlucose:         "glucose",
	FieldTenYearCHD:      "ten_year_chd",
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	_, ok := fieldColumns[f]
	return ok
}

// Column returns the SQL column backing f.
func (f Field) Column() string { return fieldColumns[f] }

// Key returns the document key backing f.
func (f Field) Key() string { return string(f) }

// Value reads f from p as a float64.
func (f Field) Value(p *Patient) float64 {
	switch f {
	case FieldMale:
		return float64(p.Male)
	case FieldAge:
		return float64(p.Age)
	case FieldEducation:
		return float64(p.Education)
	case FieldCurrentSmoker:
		return float64(p.CurrentSmoker)
	case FieldCigsPerDay:
		return p.CigsPerDay
	case FieldBPMeds:
		return float64(p.BPMeds)
	case FieldPrevalentStroke:
		return float64(p.PrevalentStroke)
	case FieldPrevalentHyp:
		return float64(p.PrevalentHyp)
	case FieldDiabetes:
		return float64(p.Diabetes)
	case FieldTotChol:
		return p.TotChol
	case FieldSysBP:
		return p.SysBP
	case FieldDiaBP:
		return p.DiaBP
	case FieldBMI:
		return p.BMI
	case FieldHeartRate:
		return p.HeartRate
	case FieldGlucose:
		return p.Glucose
	case FieldTenYearCHD:
		return float64(p.TenYearCHD)
	}
	return 0
}

// Summary is an ungrouped min/max/mean aggregation of one field.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// GroupedValues holds, per outcome label, the values of each requested field in
// store order.
type GroupedValues map[int]map[Field][]float64

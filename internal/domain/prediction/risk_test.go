package prediction

import (
	"reflect"
	"testing"
)

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, RiskLow},
		{0.29, RiskLow},
		{0.30, RiskModerate},
		{0.69, RiskModerate},
		{0.70, RiskHigh},
		{1, RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.p); got != tt.want {
			t.Errorf("RiskLevel(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func baselineInput() Input {
	return Input{
		Male:      0,
		Age:       40,
		Education: 2,
		TotChol:   200,
		SysBP:     120,
		DiaBP:     80,
		BMI:       24,
		HeartRate: 70,
		Glucose:   80,
	}
}

func TestRiskFactors_ReferenceInput(t *testing.T) {
	in := baselineInput()
	in.Age = 65
	in.SysBP = 150
	in.Male = 1
	in.Diabetes = 1

	want := []string{
		"Advanced age (>60 years)",
		"High blood pressure (>140 mmHg)",
		"Diabetes",
		"Male over 45 years",
	}
	if got := RiskFactors(in); !reflect.DeepEqual(got, want) {
		t.Errorf("RiskFactors = %v, want %v", got, want)
	}
}

func TestRiskFactors_NoneIsEmptySlice(t *testing.T) {
	got := RiskFactors(baselineInput())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRiskFactors_AllRules(t *testing.T) {
	in := baselineInput()
	in.Age = 61
	in.SysBP = 141
	in.CurrentSmoker = 1
	in.Diabetes = 1
	in.TotChol = 241
	in.BMI = 30.1
	in.PrevalentHyp = 1

	got := RiskFactors(in)
	want := []string{
		"Advanced age (>60 years)",
		"High blood pressure (>140 mmHg)",
		"Current smoker",
		"Diabetes",
		"High cholesterol (>240 mg/dL)",
		"Obesity (BMI >30)",
		"Prevalent hypertension",
		"Female over 55 years",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RiskFactors = %v, want %v", got, want)
	}
}

func TestRiskFactors_ThresholdsAreStrict(t *testing.T) {
	in := baselineInput()
	in.Age = 60
	in.SysBP = 140
	in.TotChol = 240
	in.BMI = 30
	got := RiskFactors(in)
	want := []string{"Female over 55 years"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RiskFactors = %v, want %v", got, want)
	}

	in.Male = 1
	in.Age = 45
	if got := RiskFactors(in); len(got) != 0 {
		t.Errorf("expected no factors for male aged 45, got %v", got)
	}
}

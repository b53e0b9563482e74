package prediction

// Risk level labels.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// RiskLevel buckets a positive-class probability.
func RiskLevel(p float64) string {
	switch {
	case p < 0.30:
		return RiskLow
	case p < 0.70:
		return RiskModerate
	default:
		return RiskHigh
	}
}

type riskRule struct {
	label string
	match func(Input) bool
}

// riskRules are evaluated in order; every match is reported.
var riskRules = []riskRule{
	{"Advanced age (>60 years)", func(in Input) bool { return in.Age > 60 }},
	{"High blood pressure (>140 mmHg)", func(in Input) bool { return in.SysBP > 140 }},
	{"Current smoker", func(in Input) bool { return in.CurrentSmoker == 1 }},
	{"Diabetes", func(in Input) bool { return in.Diabetes == 1 }},
	{"High cholesterol (>240 mg/dL)", func(in Input) bool { return in.TotChol > 240 }},
	{"Obesity (BMI >30)", func(in Input) bool { return in.BMI > 30 }},
	{"Prevalent hypertension", func(in Input) bool { return in.PrevalentHyp == 1 }},
	{"Male over 45 years", func(in Input) bool { return in.Male == 1 && in.Age > 45 }},
	{"Female over 55 years", func(in Input) bool { return in.Male == 0 && in.Age > 55 }},
}

// RiskFactors lists the rule-derived factors triggered by in. They are
// descriptive and independent of the model output.
func RiskFactors(in Input) []string {
	factors := []string{}
	for _, r := range riskRules {
		if r.match(in) {
			factors = append(factors, r.label)
		}
	}
	return factors
}

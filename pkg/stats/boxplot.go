package stats

import "github.com/samber/lo"

// OutlierFactor is the IQR multiplier used for the Tukey fences.
const OutlierFactor = 1.5

// Box holds five-number box-plot statistics for one sample.
type Box struct {
	Q1       float64
	Q2       float64
	Q3       float64
	IQR      float64
	Min      float64 // smallest observed value inside the lower fence
	Max      float64 // largest observed value inside the upper fence
	Outliers []float64
}

// Fences returns the lower and upper Tukey fences.
func (b Box) Fences() (lower, upper float64) {
	return b.Q1 - OutlierFactor*b.IQR, b.Q3 + OutlierFactor*b.IQR
}

// BoxPlot computes quartiles, IQR, whiskers and outliers of values. Outliers
// keep their input order. Empty input yields a zero Box with no outliers.
func BoxPlot(values []float64) Box {
	if len(values) == 0 {
		return Box{Outliers: []float64{}}
	}

	q1, q2, q3 := Quartiles(values)
	b := Box{Q1: q1, Q2: q2, Q3: q3, IQR: q3 - q1}
	lower, upper := b.Fences()

	inside := lo.Filter(values, func(v float64, _ int) bool { return v >= lower && v <= upper })
	b.Outliers = lo.Filter(values, func(v float64, _ int) bool { return v < lower || v > upper })

	// Q1..Q3 lies inside the fences, so inside is never empty here.
	b.Min, b.Max, _ = MinMax(inside)
	return b
}

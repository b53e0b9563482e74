package analytics

import (
	"github.com/samber/lo"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/pkg/stats"
)

// The functions in this file are pure: they shape store aggregation output
// into response payloads.

func roundedRange(s patient.Summary) Range {
	if s.Count == 0 {
		return Range{}
	}
	return Range{
		Min: stats.Round(s.Min, 1),
		Max: stats.Round(s.Max, 1),
		Avg: stats.Round(s.Mean, 1),
	}
}

func FormatDatasetStats(total, positive, negative int, age, sysBP patient.Summary) DatasetStats {
	return DatasetStats{
		TotalPatients: total,
		CHDPositive:   positive,
		CHDNegative:   negative,
		AgeRange:      roundedRange(age),
		BPStats:       roundedRange(sysBP),
		KeyVariables:  lo.Map(KeyVariables, func(f patient.Field, _ int) string { return string(f) }),
	}
}

func FormatBoxPlot(values []float64) BoxStats {
	b := stats.BoxPlot(values)
	return BoxStats{
		Q1:       b.Q1,
		Q2:       b.Q2,
		Q3:       b.Q3,
		IQR:      b.IQR,
		Min:      b.Min,
		Max:      b.Max,
		Outliers: b.Outliers,
	}
}

func FormatBoxPlots(groups patient.GroupedValues, field patient.Field) map[string]BoxStats {
	return lo.MapEntries(groups, func(outcome int, g map[patient.Field][]float64) (string, BoxStats) {
		return GroupLabel(outcome), FormatBoxPlot(g[field])
	})
}

func FormatHistogram(field patient.Field, values []float64) HistogramStats {
	h := stats.NewHistogram(values, HistogramBins)
	return HistogramStats{
		Field:  string(field),
		Counts: h.Counts,
		Bins:   h.Edges,
		Stats: Moments{
			Mean:     stats.SafeFloat(stats.Mean(values)),
			Std:      stats.SafeFloat(stats.Std(values)),
			Skewness: stats.SafeFloat(stats.Skewness(values)),
			Total:    len(values),
		},
	}
}

func FormatDistribution(groups patient.GroupedValues, field patient.Field) map[string][]float64 {
	return lo.MapEntries(groups, func(outcome int, g map[patient.Field][]float64) (string, []float64) {
		return GroupLabel(outcome), orEmpty(g[field])
	})
}

func FormatViolin(groups patient.GroupedValues) map[string]ViolinGroup {
	return lo.MapEntries(groups, func(outcome int, g map[patient.Field][]float64) (string, ViolinGroup) {
		return GroupLabel(outcome), ViolinGroup{
			SysBP: orEmpty(g[patient.FieldSysBP]),
			Age:   orEmpty(g[patient.FieldAge]),
			BMI:   orEmpty(g[patient.FieldBMI]),
		}
	})
}

func orEmpty(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

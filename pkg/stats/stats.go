// Package stats provides descriptive statistics over float64 samples.
// Moments use population definitions (divide by n, not n-1).
package stats

import (
	"math"
	"sort"
)

// Sorted returns a sorted copy of data.
func Sorted(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

// Percentile returns the p-th percentile (0-100) of data using linear
// interpolation between closest ranks. Empty input yields 0.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return percentileSorted(Sorted(data), p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quartiles returns Q1, Q2 (median) and Q3 of data.
func Quartiles(data []float64) (q1, q2, q3 float64) {
	sorted := Sorted(data)
	return percentileSorted(sorted, 25), percentileSorted(sorted, 50), percentileSorted(sorted, 75)
}

// Median returns the 50th percentile.
func Median(data []float64) float64 {
	return Percentile(data, 50)
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// centralMoment returns the k-th population central moment around mean.
func centralMoment(data []float64, mean float64, k int) float64 {
	sum := 0.0
	for _, v := range data {
		sum += math.Pow(v-mean, float64(k))
	}
	return sum / float64(len(data))
}

// Std returns the population standard deviation, 0 for empty input.
func Std(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(centralMoment(data, Mean(data), 2))
}

// Skewness returns the population (Fisher-Pearson, unadjusted) skewness
// m3 / m2^1.5. Constant or empty samples yield 0.
func Skewness(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean := Mean(data)
	m2 := centralMoment(data, mean, 2)
	if m2 == 0 {
		return 0
	}
	return centralMoment(data, mean, 3) / math.Pow(m2, 1.5)
}

// MinMax returns the smallest and largest values. ok is false for empty input.
func MinMax(data []float64) (min, max float64, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	min, max = data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// SafeFloat maps NaN and Inf to 0 so results always encode as JSON numbers.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

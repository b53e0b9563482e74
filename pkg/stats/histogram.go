package stats

import "math"

// Histogram is an equal-width binning of a sample. Edges has len(Counts)+1
// entries; every bin is half-open except the last, which includes its right edge.
type Histogram struct {
	Counts []int
	Edges  []float64
}

// Total returns the number of binned observations.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// NewHistogram bins values into the given number of equal-width bins spanning
// the observed range. A constant sample spans [v-0.5, v+0.5] and an empty one
// spans [0, 1].
func NewHistogram(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}

	lo, hi, ok := MinMax(values)
	switch {
	case !ok:
		lo, hi = 0, 1
	case lo == hi:
		lo, hi = lo-0.5, hi+0.5
	}

	h := Histogram{
		Counts: make([]int, bins),
		Edges:  make([]float64, bins+1),
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	for _, v := range values {
		h.Counts[h.binOf(v, lo, width)]++
	}
	return h
}

func (h Histogram) binOf(v, lo, width float64) int {
	last := len(h.Counts) - 1
	idx := int(math.Floor((v - lo) / width))
	if idx > last {
		idx = last
	}
	if idx < 0 {
		idx = 0
	}
	// Correct for floating point drift against the materialized edges.
	if idx > 0 && v < h.Edges[idx] {
		idx--
	} else if idx < last && v >= h.Edges[idx+1] {
		idx++
	}
	return idx
}

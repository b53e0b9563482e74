package patient

import (
	"strings"
)

// BPRange buckets systolic blood pressure.
type BPRange string

const (
	BPLow    BPRange = "low"    // sysBP < 120
	BPNormal BPRange = "normal" // 120 <= sysBP < 140
	BPHigh   BPRange = "high"   // sysBP >= 140
)

const (
	bpNormalFloor = 120.0
	bpHighFloor   = 140.0
)

// Valid reports whether r is one of the known buckets.
func (r BPRange) Valid() bool {
	return r == BPLow || r == BPNormal || r == BPHigh
}

// Bounds returns the half-open [min, max) systolic bounds of the bucket. A nil
// bound is unbounded.
func (r BPRange) Bounds() (min, max *float64) {
	normal, high := bpNormalFloor, bpHighFloor
	switch r {
	case BPLow:
		return nil, &normal
	case BPNormal:
		return &normal, &high
	case BPHigh:
		return &high, nil
	}
	return nil, nil
}

// Filter is a conjunction of optional record predicates.
type Filter struct {
	AgeMin    *int
	AgeMax    *int
	BPRange   BPRange
	CHDStatus *int
	Gender    *int
	Search    string // case-insensitive id prefix
}

// Matches reports whether p satisfies every predicate set on f.
func (f Filter) Matches(p *Patient) bool {
	if f.AgeMin != nil && p.Age < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && p.Age > *f.AgeMax {
		return false
	}
	if f.BPRange != "" {
		min, max := f.BPRange.Bounds()
		if min != nil && p.SysBP < *min {
			return false
		}
		if max != nil && p.SysBP >= *max {
			return false
		}
	}
	if f.CHDStatus != nil && p.TenYearCHD != *f.CHDStatus {
		return false
	}
	if f.Gender != nil && p.Male != *f.Gender {
		return false
	}
	if f.Search != "" && !strings.HasPrefix(strings.ToLower(p.ID), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

package patient

import (
	"context"
	"fmt"
	"sync"

	"github.com/chd/chd/pkg/stats"
)

// patientRepoMemory keeps records in insertion order. It backs memory://
// stores for local development and the package tests.
type patientRepoMemory struct {
	mu       sync.RWMutex
	patients []*Patient
}

func NewPatientRepoMemory() PatientRepository {
	return &patientRepoMemory{}
}

func (r *patientRepoMemory) Ping(_ context.Context) error { return nil }

func (r *patientRepoMemory) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patients), nil
}

func (r *patientRepoMemory) CountByOutcome(_ context.Context, outcome int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.patients {
		if p.TenYearCHD == outcome {
			n++
		}
	}
	return n, nil
}

func (r *patientRepoMemory) Find(_ context.Context, f Filter, skip, limit int) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := []*Patient{}
	matched := 0
	for _, p := range r.patients {
		if !f.Matches(p) {
			continue
		}
		matched++
		if matched <= skip {
			continue
		}
		if len(items) == limit {
			break
		}
		cp := *p
		items = append(items, &cp)
	}
	return items, nil
}

func (r *patientRepoMemory) Summarize(ctx context.Context, field Field) (Summary, error) {
	values, err := r.Values(ctx, field)
	if err != nil {
		return Summary{}, err
	}
	min, max, ok := stats.MinMax(values)
	if !ok {
		return Summary{}, nil
	}
	return Summary{Count: len(values), Min: min, Max: max, Mean: stats.Mean(values)}, nil
}

func (r *patientRepoMemory) Values(_ context.Context, field Field) ([]float64, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := make([]float64, 0, len(r.patients))
	for _, p := range r.patients {
		values = append(values, field.Value(p))
	}
	return values, nil
}

func (r *patientRepoMemory) ValuesByOutcome(_ context.Context, fields ...Field) (GroupedValues, error) {
	for _, f := range fields {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown field %q", f)
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := GroupedValues{}
	for _, p := range r.patients {
		group, ok := result[p.TenYearCHD]
		if !ok {
			group = make(map[Field][]float64, len(fields))
			result[p.TenYearCHD] = group
		}
		for _, f := range fields {
			group[f] = append(group[f], f.Value(p))
		}
	}
	return result, nil
}

func (r *patientRepoMemory) InsertMany(_ context.Context, patients []*Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range patients {
		cp := *p
		r.patients = append(r.patients, &cp)
	}
	return nil
}

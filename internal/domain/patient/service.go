package patient

import (
	"context"

	"github.com/chd/chd/internal/platform/apperr"
)

// MaxAge is the upper bound accepted for age filters.
const MaxAge = 120

type Service struct {
	repo PatientRepository
}

func NewService(repo PatientRepository) *Service {
	return &Service{repo: repo}
}

// ValidateFilter checks filter bounds before they reach the store.
func ValidateFilter(f Filter) error {
	if f.AgeMin != nil && *f.AgeMin < 0 {
		return apperr.Validation("age_min must be greater than or equal to 0")
	}
	if f.AgeMax != nil && *f.AgeMax > MaxAge {
		return apperr.Validation("age_max must be less than or equal to %d", MaxAge)
	}
	if f.BPRange != "" && !f.BPRange.Valid() {
		return apperr.Validation("bp_range must be one of low, normal, high")
	}
	if f.CHDStatus != nil && *f.CHDStatus != 0 && *f.CHDStatus != 1 {
		return apperr.Validation("chd_status must be 0 or 1")
	}
	if f.Gender != nil && *f.Gender != 0 && *f.Gender != 1 {
		return apperr.Validation("gender must be 0 or 1")
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, f Filter, skip, limit int) ([]*Patient, error) {
	if err := ValidateFilter(f); err != nil {
		return nil, err
	}
	items, err := s.repo.Find(ctx, f, skip, limit)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return items, nil
}

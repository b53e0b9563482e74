package analytics

import (
	"context"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/internal/platform/apperr"
)

type Service struct {
	repo patient.PatientRepository
}

func NewService(repo patient.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) DatasetStats(ctx context.Context) (*DatasetStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	positive, err := s.repo.CountByOutcome(ctx, patient.OutcomePositive)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	negative, err := s.repo.CountByOutcome(ctx, patient.OutcomeNegative)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	age, err := s.repo.Summarize(ctx, patient.FieldAge)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	bp, err := s.repo.Summarize(ctx, patient.FieldSysBP)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	out := FormatDatasetStats(total, positive, negative, age, bp)
	return &out, nil
}

func (s *Service) BloodPressureDistribution(ctx context.Context) (map[string][]float64, error) {
	groups, err := s.repo.ValuesByOutcome(ctx, patient.FieldSysBP)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return FormatDistribution(groups, patient.FieldSysBP), nil
}

func (s *Service) BloodPressureBoxPlot(ctx context.Context) (map[string]BoxStats, error) {
	groups, err := s.repo.ValuesByOutcome(ctx, patient.FieldSysBP)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return FormatBoxPlots(groups, patient.FieldSysBP), nil
}

// Histogram bins every value of field. Only key variables are accepted.
func (s *Service) Histogram(ctx context.Context, field patient.Field) (*HistogramStats, error) {
	if !isKeyVariable(field) {
		return nil, apperr.Validation("field must be one of the key variables, got %q", field)
	}
	values, err := s.repo.Values(ctx, field)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	out := FormatHistogram(field, values)
	return &out, nil
}

func (s *Service) ViolinPlot(ctx context.Context) (map[string]ViolinGroup, error) {
	groups, err := s.repo.ValuesByOutcome(ctx, patient.FieldSysBP, patient.FieldAge, patient.FieldBMI)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return FormatViolin(groups), nil
}

func isKeyVariable(f patient.Field) bool {
	for _, k := range KeyVariables {
		if k == f {
			return true
		}
	}
	return false
}

package prediction

import (
	"context"

	"github.com/chd/chd/internal/platform/apperr"
)

type Service struct {
	model *Model
}

// NewService accepts a nil model; predictions then fail with ModelUnavailable.
func NewService(model *Model) *Service {
	return &Service{model: model}
}

func (s *Service) Predict(_ context.Context, in Input) (*Result, error) {
	if s.model == nil {
		return nil, apperr.ModelUnavailable("Model not loaded")
	}
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	prediction, probability := s.model.Score(in)
	return &Result{
		Prediction:  prediction,
		Probability: probability,
		RiskLevel:   RiskLevel(probability),
		RiskFactors: RiskFactors(in),
	}, nil
}

func (s *Service) Info() Info {
	if s.model == nil {
		return Info{Status: StatusNotLoaded}
	}
	return s.model.Info()
}

package prediction

import (
	"context"
	"testing"

	"github.com/chd/chd/internal/platform/apperr"
)

func TestService_PredictWithoutModel(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Predict(context.Background(), baselineInput())
	if !apperr.Is(err, apperr.KindModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if info := svc.Info(); info.Status != StatusNotLoaded || info.ModelType != "" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestService_Predict(t *testing.T) {
	svc := NewService(mustModel(t, ageOnlyArtifact))
	in := baselineInput()
	in.Age = 65
	in.Male = 1

	res, err := svc.Predict(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Prediction != 1 || res.RiskLevel != RiskHigh {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(res.RiskFactors) != 2 {
		t.Errorf("expected 2 risk factors, got %v", res.RiskFactors)
	}
}

func TestService_PredictRejectsInvalidInput(t *testing.T) {
	svc := NewService(mustModel(t, ageOnlyArtifact))
	in := baselineInput()
	in.Diabetes = 2
	if _, err := svc.Predict(context.Background(), in); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	in = baselineInput()
	in.BMI = -3
	if _, err := svc.Predict(context.Background(), in); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

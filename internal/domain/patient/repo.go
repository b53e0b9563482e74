package patient

import (
	"context"
)

type PatientRepository interface {
	Count(ctx context.Context) (int, error)
	CountByOutcome(ctx context.Context, outcome int) (int, error)
	Find(ctx context.Context, f Filter, skip, limit int) ([]*Patient, error)
	Summarize(ctx context.Context, field Field) (Summary, error)
	Values(ctx context.Context, field Field) ([]float64, error)
	ValuesByOutcome(ctx context.Context, fields ...Field) (GroupedValues, error)
	InsertMany(ctx context.Context, patients []*Patient) error
	Ping(ctx context.Context) error
}

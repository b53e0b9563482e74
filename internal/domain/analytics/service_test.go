package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/internal/platform/apperr"
)

type failingRepo struct{ err error }

func (f failingRepo) Count(context.Context) (int, error) { return 0, f.err }
func (f failingRepo) CountByOutcome(context.Context, int) (int, error) { return 0, f.err }
func (f failingRepo) Find(context.Context, patient.Filter, int, int) ([]*patient.Patient, error) {
	return nil, f.err
}
func (f failingRepo) Summarize(context.Context, patient.Field) (patient.Summary, error) {
	return patient.Summary{}, f.err
}
func (f failingRepo) Values(context.Context, patient.Field) ([]float64, error) { return nil, f.err }
func (f failingRepo) ValuesByOutcome(context.Context, ...patient.Field) (patient.GroupedValues, error) {
	return nil, f.err
}
func (f failingRepo) InsertMany(context.Context, []*patient.Patient) error { return f.err }
func (f failingRepo) Ping(context.Context) error { return f.err }

// seedRows is age, sysBP, BMI, TenYearCHD.
var seedRows = [][4]float64{
	{40, 120, 22, 0},
	{50, 130, 24, 0},
	{60, 110, 26, 0},
	{70, 150, 28, 1},
	{55, 165, 31, 1},
	{45, 300, 20, 0},
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := patient.NewPatientRepoMemory()
	var patients []*patient.Patient
	for i, r := range seedRows {
		patients = append(patients, &patient.Patient{
			ID:         fmt.Sprintf("%08x-0000-4000-8000-%012x", i, i),
			Male:       i % 2,
			Age:        int(r[0]),
			Education:  1,
			TotChol:    200,
			SysBP:      r[1],
			DiaBP:      80,
			BMI:        r[2],
			HeartRate:  70,
			Glucose:    85,
			TenYearCHD: int(r[3]),
		})
	}
	if err := repo.InsertMany(context.Background(), patients); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewService(repo)
}

func TestService_DatasetStats(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.DatasetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalPatients != 6 || out.CHDPositive != 2 || out.CHDNegative != 4 {
		t.Errorf("unexpected counts: %+v", out)
	}
	if out.AgeRange != (Range{Min: 40, Max: 70, Avg: 53.3}) {
		t.Errorf("unexpected age range: %+v", out.AgeRange)
	}
	if out.BPStats != (Range{Min: 110, Max: 300, Avg: 162.5}) {
		t.Errorf("unexpected bp stats: %+v", out.BPStats)
	}
	want := []string{"age", "sysBP", "diaBP", "BMI", "totChol", "heartRate", "glucose"}
	if fmt.Sprint(out.KeyVariables) != fmt.Sprint(want) {
		t.Errorf("expected key variables %v, got %v", want, out.KeyVariables)
	}
}

func TestService_DatasetStats_EmptyStore(t *testing.T) {
	svc := NewService(patient.NewPatientRepoMemory())
	out, err := svc.DatasetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalPatients != 0 || out.AgeRange != (Range{}) {
		t.Errorf("expected zero stats, got %+v", out)
	}
}

func TestService_BloodPressureBoxPlot(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.BloodPressureBoxPlot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	neg, ok := out[LabelNoCHD]
	if !ok {
		t.Fatalf("missing %q group", LabelNoCHD)
	}
	if neg.Q1 != 117.5 || neg.Q2 != 125 || neg.Q3 != 172.5 || neg.IQR != 55 {
		t.Errorf("unexpected quartiles: %+v", neg)
	}
	if len(neg.Outliers) != 1 || neg.Outliers[0] != 300 {
		t.Errorf("expected outlier 300, got %v", neg.Outliers)
	}
	if neg.Min != 110 || neg.Max != 130 {
		t.Errorf("expected whiskers 110..130, got %v..%v", neg.Min, neg.Max)
	}

	pos := out[LabelCHD]
	if pos.Q1 > pos.Q2 || pos.Q2 > pos.Q3 {
		t.Errorf("quartiles out of order: %+v", pos)
	}
	if len(pos.Outliers) != 0 || pos.Min != 150 || pos.Max != 165 {
		t.Errorf("unexpected CHD box: %+v", pos)
	}
}

func TestService_BloodPressureDistribution(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.BloodPressureDistribution(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out[LabelCHD]) != 2 || len(out[LabelNoCHD]) != 4 {
		t.Errorf("unexpected group sizes: %v", out)
	}
}

func TestService_AgeHistogram(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.Histogram(context.Background(), patient.FieldAge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Counts) != HistogramBins {
		t.Fatalf("expected %d bins, got %d", HistogramBins, len(out.Counts))
	}
	if len(out.Bins) != HistogramBins+1 {
		t.Fatalf("expected %d edges, got %d", HistogramBins+1, len(out.Bins))
	}
	sum := 0
	for _, c := range out.Counts {
		sum += c
	}
	if sum != 6 || out.Stats.Total != 6 {
		t.Errorf("expected 6 observations, got sum=%d total=%d", sum, out.Stats.Total)
	}
	if out.Bins[0] != 40 || out.Bins[HistogramBins] != 70 {
		t.Errorf("expected edges to span 40..70, got %v..%v", out.Bins[0], out.Bins[HistogramBins])
	}
	if out.Field != "age" {
		t.Errorf("expected field age, got %q", out.Field)
	}
}

func TestService_Histogram_RejectsNonKeyVariable(t *testing.T) {
	svc := newTestService(t)
	for _, f := range []patient.Field{patient.FieldTenYearCHD, "nope"} {
		_, err := svc.Histogram(context.Background(), f)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("field %q: expected validation error, got %v", f, err)
		}
	}
}

func TestService_ViolinPlot(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.ViolinPlot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chd := out[LabelCHD]
	if fmt.Sprint(chd.SysBP) != "[150 165]" || fmt.Sprint(chd.Age) != "[70 55]" || fmt.Sprint(chd.BMI) != "[28 31]" {
		t.Errorf("unexpected CHD group: %+v", chd)
	}
	if len(out[LabelNoCHD].Age) != 4 {
		t.Errorf("expected 4 ages in %q, got %v", LabelNoCHD, out[LabelNoCHD].Age)
	}
}

func TestService_StoreUnavailable(t *testing.T) {
	svc := NewService(failingRepo{err: errors.New("no reachable servers")})
	ctx := context.Background()

	calls := map[string]func() error{
		"stats":     func() error { _, err := svc.DatasetStats(ctx); return err },
		"bp-dist":   func() error { _, err := svc.BloodPressureDistribution(ctx); return err },
		"bp-box":    func() error { _, err := svc.BloodPressureBoxPlot(ctx); return err },
		"histogram": func() error { _, err := svc.Histogram(ctx, patient.FieldAge); return err },
		"violin":    func() error { _, err := svc.ViolinPlot(ctx); return err },
	}
	for name, call := range calls {
		if err := call(); !apperr.Is(err, apperr.KindStoreUnavailable) {
			t.Errorf("%s: expected store unavailable, got %v", name, err)
		}
	}
}

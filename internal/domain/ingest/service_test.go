package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/internal/platform/apperr"
	"github.com/chd/chd/internal/platform/blobstore"
)

const sample = header +
	"1,39,4,0,0,0,0,0,0,195,106,70,26.97,80,77,0,\n" +
	"0,46,2,0,0,0,0,0,0,250,121,81,28.73,95,76,0,\n" +
	"1,48,1,1,20,0,0,0,0,245,127.5,80,25.34,75,70,0,\n"

func newSource(data string) *blobstore.InMemoryBlobStore {
	src := blobstore.NewInMemoryBlobStore()
	src.Put("framingham.csv", []byte(data))
	return src
}

// countingRepo records InsertMany calls on top of the in-memory repository.
type countingRepo struct {
	patient.PatientRepository
	inserts int
}

func (r *countingRepo) InsertMany(ctx context.Context, p []*patient.Patient) error {
	r.inserts++
	return r.PatientRepository.InsertMany(ctx, p)
}

func TestService_Import_Idempotent(t *testing.T) {
	repo := &countingRepo{PatientRepository: patient.NewPatientRepoMemory()}
	svc := NewService(repo, newSource(sample), "framingham.csv")
	ctx := context.Background()

	first, err := svc.Import(ctx)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Message != MessageImported || first.Count != 3 {
		t.Errorf("unexpected first result: %+v", first)
	}

	second, err := svc.Import(ctx)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Message != MessageAlreadyImported || second.Count != 3 {
		t.Errorf("unexpected second result: %+v", second)
	}
	if repo.inserts != 1 {
		t.Errorf("expected one insert, got %d", repo.inserts)
	}
	if n, _ := repo.Count(ctx); n != 3 {
		t.Errorf("expected 3 stored records, got %d", n)
	}
}

func TestService_Import_NoUsableRows(t *testing.T) {
	src := header + "1,NA,4,0,0,0,0,0,0,195,106,70,26.97,80,77,0,\n"
	svc := NewService(patient.NewPatientRepoMemory(), newSource(src), "framingham.csv")
	_, err := svc.Import(context.Background())
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestService_Import_UnreadableSource(t *testing.T) {
	svc := NewService(patient.NewPatientRepoMemory(), blobstore.NewInMemoryBlobStore(), "framingham.csv")
	_, err := svc.Import(context.Background())
	if !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !errors.Is(err, blobstore.ErrBlobNotFound) {
		t.Errorf("expected cause to be ErrBlobNotFound, got %v", err)
	}
}

type brokenRepo struct {
	patient.PatientRepository
}

func (brokenRepo) Count(context.Context) (int, error) { return 0, errors.New("server selection timeout") }

func TestService_Import_StoreUnavailable(t *testing.T) {
	svc := NewService(brokenRepo{patient.NewPatientRepoMemory()}, newSource(sample), "framingham.csv")
	if _, err := svc.Import(context.Background()); !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
}

func TestService_Import_BundledSample(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("..", "..", "..", "data", "framingham.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("sample dataset not present: %v", err)
	}
	svc := NewService(patient.NewPatientRepoMemory(), blobstore.NewFileStore(""), path)
	res, err := svc.Import(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count == 0 || res.Report.Kept != res.Count {
		t.Errorf("unexpected result: %+v", res)
	}
}

package ingest

import (
	"bytes"
	"context"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/internal/platform/apperr"
	"github.com/chd/chd/internal/platform/blobstore"
)

const (
	MessageAlreadyImported = "Data already imported"
	MessageImported        = "Data imported successfully"
)

type Result struct {
	Message string  `json:"message"`
	Count   int     `json:"count"`
	Report  *Report `json:"-"`
}

// Service loads the cohort CSV into an empty store. The emptiness check and
// the insert are not atomic: concurrent first imports can both insert.
type Service struct {
	repo   patient.PatientRepository
	source blobstore.BlobStore
	key    string
}

func NewService(repo patient.PatientRepository, source blobstore.BlobStore, key string) *Service {
	return &Service{repo: repo, source: source, key: key}
}

func (s *Service) Import(ctx context.Context) (*Result, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	if n > 0 {
		return &Result{Message: MessageAlreadyImported, Count: n}, nil
	}

	blob, err := blobstore.Fetch(ctx, s.source, s.key)
	if err != nil {
		return nil, apperr.InvalidInput("CSV file is empty or could not be read", err)
	}
	records, report, err := ParseCSV(bytes.NewReader(blob.Data))
	if err != nil {
		return nil, apperr.InvalidInput("CSV file is empty or could not be read", err)
	}
	if len(records) == 0 {
		return nil, apperr.InvalidInput("No valid records found in CSV file", nil)
	}

	if err := s.repo.InsertMany(ctx, records); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	return &Result{Message: MessageImported, Count: len(records), Report: report}, nil
}

// Package blobstore reads the service's static inputs, the dataset CSV and the
// model artifact, from a local path or an S3 object. It defines the BlobStore
// interface, file, S3 and in-memory implementations, and a resolver that picks
// one from a location string.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrBlobTooLarge = errors.New("blob exceeds maximum allowed size")
	ErrInvalidKey   = errors.New("blob key is required")
)

// MaxBlobSize is the largest input Fetch will buffer (256 MB).
const MaxBlobSize = 256 * 1024 * 1024

// BlobStore opens blobs by key for reading.
type BlobStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Blob is a fully buffered blob plus its SHA-256 hex digest.
type Blob struct {
	Key  string
	Data []byte
	Hash string
}

// Fetch reads key from store into memory, enforcing MaxBlobSize.
func Fetch(ctx context.Context, store BlobStore, key string) (*Blob, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if len(data) > MaxBlobSize {
		return nil, ErrBlobTooLarge
	}
	sum := sha256.Sum256(data)
	return &Blob{Key: key, Data: data, Hash: fmt.Sprintf("%x", sum)}, nil
}

// ---------------------------------------------------------------------------
// File implementation
// ---------------------------------------------------------------------------

// FileStore reads blobs from the local filesystem. Relative keys resolve
// against Root when it is set.
type FileStore struct {
	Root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

func (s *FileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	path := key
	if s.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Root, path)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// InMemoryBlobStore is a thread-safe BlobStore for tests and development.
type InMemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemoryBlobStore() *InMemoryBlobStore {
	return &InMemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryBlobStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
}

func (s *InMemoryBlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ---------------------------------------------------------------------------
// Location resolution
// ---------------------------------------------------------------------------

// ParseS3Location splits s3://bucket/key. ok is false for anything else.
func ParseS3Location(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Resolve returns the store and key that serve location. s3:// locations get
// an S3Store built from the default AWS configuration; anything else is a
// local path.
func Resolve(ctx context.Context, location string) (BlobStore, string, error) {
	if strings.HasPrefix(location, "s3://") {
		bucket, key, ok := ParseS3Location(location)
		if !ok {
			return nil, "", fmt.Errorf("malformed s3 location %q", location)
		}
		store, err := NewS3Store(ctx, bucket)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	}
	return NewFileStore(""), location, nil
}

// FetchLocation resolves location and fetches it in one step.
func FetchLocation(ctx context.Context, location string) (*Blob, error) {
	store, key, err := Resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	return Fetch(ctx, store, key)
}

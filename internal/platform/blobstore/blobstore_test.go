package blobstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_Open(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	blob, err := Fetch(context.Background(), NewFileStore(dir), "data.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(blob.Data) != "a,b\n1,2\n" {
		t.Errorf("unexpected content %q", blob.Data)
	}
	want := fmt.Sprintf("%x", sha256.Sum256(blob.Data))
	if blob.Hash != want {
		t.Errorf("expected hash %s, got %s", want, blob.Hash)
	}
}

func TestFileStore_AbsolutePathIgnoresRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Fetch(context.Background(), NewFileStore("/nonexistent"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileStore_NotFound(t *testing.T) {
	_, err := Fetch(context.Background(), NewFileStore(t.TempDir()), "missing.csv")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestFetch_EmptyKey(t *testing.T) {
	_, err := Fetch(context.Background(), NewInMemoryBlobStore(), "")
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestInMemoryBlobStore(t *testing.T) {
	store := NewInMemoryBlobStore()
	src := []byte("hello")
	store.Put("k", src)
	src[0] = 'j'

	blob, err := Fetch(context.Background(), store, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(blob.Data) != "hello" {
		t.Errorf("expected stored copy to be isolated, got %q", blob.Data)
	}
	if _, err := Fetch(context.Background(), store, "other"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestParseS3Location(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://models/chd/model.json", "models", "chd/model.json", true},
		{"s3://bucket/", "", "", false},
		{"s3://", "", "", false},
		{"data/framingham.csv", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, ok := ParseS3Location(tt.in)
		if bucket != tt.bucket || key != tt.key || ok != tt.ok {
			t.Errorf("ParseS3Location(%q) = %q, %q, %v", tt.in, bucket, key, ok)
		}
	}
}

func TestResolve_LocalPath(t *testing.T) {
	store, key, err := Resolve(context.Background(), "data/framingham.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected *FileStore, got %T", store)
	}
	if key != "data/framingham.csv" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestResolve_MalformedS3(t *testing.T) {
	if _, _, err := Resolve(context.Background(), "s3://only-bucket"); err == nil {
		t.Fatal("expected error for s3 location without key")
	}
}

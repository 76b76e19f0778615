package storage

import (
	"context"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	key, err := store.Write(context.Background(), "jobs/j1/result-01.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if key != "jobs/j1/result-01.png" {
		t.Fatalf("key mismatch: %q", key)
	}
	data, err := store.Read(key)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("data mismatch: %q", data)
	}
}

func TestListReturnsKeysUnderPrefix(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"jobs/j1/a.png", "jobs/j1/b.png", "jobs/j2/c.png"} {
		if _, err := store.Write(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Write %s error: %v", key, err)
		}
	}
	keys, err := store.List("jobs/j1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("key count mismatch: %v", keys)
	}
}

func TestListMissingPrefixIsEmpty(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	keys, err := store.List("jobs/none")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.txt", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

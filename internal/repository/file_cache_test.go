package repository

import (
	"bytes"
	"testing"
)

func TestFileCache_PutAndGet(t *testing.T) {
	cache := NewFileCache()

	buf := []byte("%PDF-1.4 test content")
	fileID := cache.Put(buf, "invoice_sample.pdf")

	if fileID == "" {
		t.Fatal("expected non-empty file id")
	}

	cached, ok := cache.Get(fileID)
	if !ok {
		t.Fatal("expected cached file to be found")
	}
	if !bytes.Equal(cached.Buffer, buf) {
		t.Error("cached buffer does not match uploaded bytes")
	}
	if cached.FileName != "invoice_sample.pdf" {
		t.Errorf("expected file name invoice_sample.pdf, got %s", cached.FileName)
	}
	if cached.UploadedAt.IsZero() {
		t.Error("expected uploadedAt to be set")
	}
}

func TestFileCache_DistinctIDs(t *testing.T) {
	cache := NewFileCache()

	first := cache.Put([]byte("a"), "a.pdf")
	second := cache.Put([]byte("b"), "b.pdf")

	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached entries, got %d", cache.Len())
	}
}

func TestFileCache_GetMissing(t *testing.T) {
	cache := NewFileCache()

	if _, ok := cache.Get("does-not-exist"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

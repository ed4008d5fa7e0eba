package domain

import "time"

// CachedFile is an uploaded PDF held in memory between upload and extraction.
// Entries live for the lifetime of the process; there is no eviction. This is
// a deliberate placeholder for durable blob storage.
type CachedFile struct {
	Buffer     []byte
	FileName   string
	UploadedAt time.Time
}

// FileCache holds uploaded file bytes keyed by a generated id. Ids are unique
// and never reused.
type FileCache interface {
	Put(buf []byte, fileName string) string
	Get(fileID string) (*CachedFile, bool)
	Len() int
}

package repository

import (
	"sync"
	"time"

	"invoice-extractor/internal/domain"

	"github.com/google/uuid"
)

// FileCache is the in-process keyed buffer for uploaded PDF bytes. Entries
// live until the process exits; there is no eviction or TTL. The cache is
// constructed once and injected into the handlers that need it.
type FileCache struct {
	mu    sync.RWMutex
	files map[string]*domain.CachedFile
}

// NewFileCache creates an empty file cache.
func NewFileCache() *FileCache {
	return &FileCache{
		files: make(map[string]*domain.CachedFile),
	}
}

// Put stores the uploaded bytes under a freshly generated id and returns it.
func (c *FileCache) Put(buf []byte, fileName string) string {
	fileID := uuid.New().String()

	c.mu.Lock()
	c.files[fileID] = &domain.CachedFile{
		Buffer:     buf,
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
	}
	c.mu.Unlock()

	return fileID
}

// Get returns the cached file for an id, or false when absent.
func (c *FileCache) Get(fileID string) (*domain.CachedFile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	file, ok := c.files[fileID]
	return file, ok
}

// Len reports the number of cached entries.
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

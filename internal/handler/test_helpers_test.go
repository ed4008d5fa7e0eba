package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-extractor/internal/domain"
)

// Shared mocks for handler tests

type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})             {}
func (testLogger) Error(msg string, err error, fields ...interface{}) {}
func (testLogger) Debug(msg string, fields ...interface{})            {}
func (testLogger) Warn(msg string, fields ...interface{})             {}

type mockConfig struct {
	maxUploadSize int64
}

func (m mockConfig) GetServerPort() string   { return "8080" }
func (m mockConfig) GetLogLevel() string     { return "info" }
func (m mockConfig) GetMaxUploadSize() int64 {
	if m.maxUploadSize > 0 {
		return m.maxUploadSize
	}
	return 25 * 1024 * 1024
}
func (m mockConfig) GetSupabaseURL() string      { return "" }
func (m mockConfig) GetSupabaseKey() string      { return "" }
func (m mockConfig) GetGoogleProjectID() string  { return "test-project" }
func (m mockConfig) GetVertexLocation() string   { return "us-central1" }
func (m mockConfig) GetGeminiModel() string      { return "gemini-2.0-flash-001" }
func (m mockConfig) GetAllowedOrigins() []string { return []string{"http://localhost:3000"} }

type mockFileCache struct {
	files map[string]*domain.CachedFile
	puts  int
}

func newMockFileCache() *mockFileCache {
	return &mockFileCache{files: make(map[string]*domain.CachedFile)}
}

func (m *mockFileCache) Put(buf []byte, fileName string) string {
	m.puts++
	id := fmt.Sprintf("file-%d", m.puts)
	m.files[id] = &domain.CachedFile{
		Buffer:     buf,
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
	}
	return id
}

func (m *mockFileCache) Get(fileID string) (*domain.CachedFile, bool) {
	f, ok := m.files[fileID]
	return f, ok
}

func (m *mockFileCache) Len() int { return len(m.files) }

// responseEnvelope mirrors the wire envelope for assertions.
type responseEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a valid envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) responseEnvelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got body %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	return env
}

func assertErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) responseEnvelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d, got %d (body: %s)", wantStatus, rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatalf("expected error envelope, got body %s", rec.Body.String())
	}
	if env.Error == nil {
		t.Fatal("expected error body in envelope")
	}
	if env.Error.Code != wantCode {
		t.Errorf("expected error code %q, got %q", wantCode, env.Error.Code)
	}
	return env
}

package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"
)

// Mock implementations for service testing

type mockInvoiceRepo struct {
	records    map[string]*domain.InvoiceRecord
	lastLimit  int
	lastOffset int
	lastSearch string
	failCreate error
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{
		records: make(map[string]*domain.InvoiceRecord),
	}
}

func (m *mockInvoiceRepo) Create(record *domain.InvoiceRecord) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *mockInvoiceRepo) GetByID(id string) (*domain.InvoiceRecord, error) {
	if rec, ok := m.records[id]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) GetByFileID(fileID string) (*domain.InvoiceRecord, error) {
	for _, rec := range m.records {
		if rec.FileID == fileID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) List(searchTerm string, limit, offset int) ([]*domain.InvoiceRecord, int64, error) {
	m.lastSearch = searchTerm
	m.lastLimit = limit
	m.lastOffset = offset

	var matches []*domain.InvoiceRecord
	for _, rec := range m.records {
		if searchTerm == "" ||
			strings.Contains(strings.ToLower(rec.Vendor.Name), strings.ToLower(searchTerm)) ||
			strings.Contains(strings.ToLower(rec.Invoice.Number), strings.ToLower(searchTerm)) {
			copied := *rec
			matches = append(matches, &copied)
		}
	}
	return matches, int64(len(matches)), nil
}

func (m *mockInvoiceRepo) Update(record *domain.InvoiceRecord) error {
	copied := *record
	m.records[record.ID] = &copied
	return nil
}

func (m *mockInvoiceRepo) Delete(id string) error {
	delete(m.records, id)
	return nil
}

type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})             {}
func (testLogger) Error(msg string, err error, fields ...interface{}) {}
func (testLogger) Debug(msg string, fields ...interface{})            {}
func (testLogger) Warn(msg string, fields ...interface{})             {}

func validCreateBody() []byte {
	return []byte(`{
		"fileName": "invoice_sample.pdf",
		"vendor": {"name": "TechCorp Solutions", "address": "123 Main St"},
		"invoice": {
			"number": "INV-2024-001",
			"date": "2024-01-15",
			"currency": "USD",
			"subtotal": 6000,
			"taxPercent": 10,
			"total": 6600,
			"lineItems": [
				{"description": "Software Development Services", "unitPrice": 150, "quantity": 40, "total": 6000}
			]
		}
	}`)
}

func TestInvoiceService_Create_AssignsIDAndCreatedAt(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	record, err := svc.Create(validCreateBody())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID == "" {
		t.Error("expected non-empty id")
	}
	if record.CreatedAt == "" {
		t.Error("expected createdAt to be set")
	}
	if record.UpdatedAt != "" {
		t.Errorf("expected updatedAt to be empty at creation, got %s", record.UpdatedAt)
	}
	if record.Vendor.Name != "TechCorp Solutions" {
		t.Errorf("expected vendor name TechCorp Solutions, got %s", record.Vendor.Name)
	}

	// Id must be stable across subsequent gets.
	fetched, err := svc.Get(record.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching created record: %v", err)
	}
	if fetched.ID != record.ID {
		t.Errorf("expected stable id %s, got %s", record.ID, fetched.ID)
	}
}

func TestInvoiceService_Create_MissingVendorName(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	body := []byte(`{
		"fileName": "invoice.pdf",
		"vendor": {"address": "nowhere"},
		"invoice": {
			"number": "INV-1", "date": "2024-01-15",
			"lineItems": [{"description": "x", "unitPrice": 1, "quantity": 1, "total": 1}]
		}
	}`)

	_, err := svc.Create(body)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if apperrors.GetCode(err) != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, apperrors.GetCode(err))
	}
	if len(repo.records) != 0 {
		t.Error("invalid payload must not be persisted")
	}
}

func TestInvoiceService_Create_RejectsNegativeUnitPrice(t *testing.T) {
	svc := NewInvoiceService(newMockInvoiceRepo(), testLogger{})

	body := []byte(`{
		"fileName": "invoice.pdf",
		"vendor": {"name": "V"},
		"invoice": {
			"number": "INV-1", "date": "2024-01-15",
			"lineItems": [{"description": "x", "unitPrice": -5, "quantity": 1, "total": 1}]
		}
	}`)

	if _, err := svc.Create(body); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestInvoiceService_Create_RejectsEmptyLineItems(t *testing.T) {
	svc := NewInvoiceService(newMockInvoiceRepo(), testLogger{})

	body := []byte(`{
		"fileName": "invoice.pdf",
		"vendor": {"name": "V"},
		"invoice": {"number": "INV-1", "date": "2024-01-15", "lineItems": []}
	}`)

	if _, err := svc.Create(body); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestInvoiceService_Update_MergesAndPreservesCreatedAt(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	created, err := svc.Create(validCreateBody())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(created.ID, []byte(`{"invoice":{"total":500}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("createdAt changed on update: %s -> %s", created.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt == "" {
		t.Fatal("expected updatedAt to be set")
	}
	if updated.Invoice.Total == nil || *updated.Invoice.Total != 500 {
		t.Errorf("expected merged total 500, got %v", updated.Invoice.Total)
	}
	// Untouched fields survive the merge.
	if updated.Invoice.Number != "INV-2024-001" {
		t.Errorf("invoice number lost in merge: %s", updated.Invoice.Number)
	}
	if updated.Vendor.Name != "TechCorp Solutions" {
		t.Errorf("vendor lost in merge: %s", updated.Vendor.Name)
	}
	if len(updated.Invoice.LineItems) != 1 {
		t.Errorf("line items lost in merge: %d", len(updated.Invoice.LineItems))
	}

	// A second update refreshes updatedAt to a strictly later instant.
	again, err := svc.Update(created.ID, []byte(`{"invoice":{"total":600}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := time.Parse(time.RFC3339Nano, updated.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to parse updatedAt: %v", err)
	}
	second, err := time.Parse(time.RFC3339Nano, again.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to parse updatedAt: %v", err)
	}
	if !second.After(first) {
		t.Errorf("expected strictly later updatedAt, got %s then %s", updated.UpdatedAt, again.UpdatedAt)
	}
}

func TestInvoiceService_Update_NotFound(t *testing.T) {
	svc := NewInvoiceService(newMockInvoiceRepo(), testLogger{})

	_, err := svc.Update("missing", []byte(`{"invoice":{"total":500}}`))
	if !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestInvoiceService_Update_RejectsInvalidMerge(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	created, err := svc.Create(validCreateBody())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Blanking the invoice number must fail the merged validation.
	_, err = svc.Update(created.ID, []byte(`{"invoice":{"number":""}}`))
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	// The stored record is untouched.
	fetched, _ := svc.Get(created.ID)
	if fetched.Invoice.Number != "INV-2024-001" {
		t.Errorf("stored record modified by failed update: %s", fetched.Invoice.Number)
	}
}

func TestInvoiceService_Delete(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	created, err := svc.Create(validCreateBody())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.Delete(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected delete of existing record to report true")
	}

	if _, err := svc.Get(created.ID); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}

	deleted, err = svc.Delete(created.ID)
	if err != nil {
		t.Fatalf("delete of missing id must not error, got %v", err)
	}
	if deleted {
		t.Error("expected delete of missing record to report false")
	}
}

func TestInvoiceService_List_Defaults(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	records, total, err := svc.List("", 0, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil {
		t.Error("expected empty slice, not nil")
	}
	if total != 0 {
		t.Errorf("expected total 0, got %d", total)
	}
	if repo.lastLimit != 10 {
		t.Errorf("expected default limit 10, got %d", repo.lastLimit)
	}
	if repo.lastOffset != 0 {
		t.Errorf("expected default offset 0, got %d", repo.lastOffset)
	}
}

func TestInvoiceService_List_SearchTermForwarded(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewInvoiceService(repo, testLogger{})

	if _, err := svc.Create(validCreateBody()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, total, err := svc.List("  TechCorp ", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch != "TechCorp" {
		t.Errorf("expected trimmed search term, got %q", repo.lastSearch)
	}
	if total != 1 || len(records) != 1 {
		t.Errorf("expected one match, got %d (total %d)", len(records), total)
	}
}

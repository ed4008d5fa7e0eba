package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"github.com/supabase-community/postgrest-go"
)

const invoicesTable = "invoices"

// invoiceRow mirrors the invoices table: scalar columns plus JSONB columns
// for the vendor and invoice bodies (schema-on-write document shape).
type invoiceRow struct {
	ID             string                `json:"id"`
	FileID         string                `json:"file_id,omitempty"`
	FileName       string                `json:"file_name"`
	Vendor         domain.Vendor         `json:"vendor"`
	InvoiceDetails domain.InvoiceDetails `json:"invoice_details"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at,omitempty"`
}

// SupabaseInvoiceRepository implements domain.InvoiceRepository over PostgREST.
type SupabaseInvoiceRepository struct {
	supabaseClient *SupabaseClient
	logger         domain.Logger
}

// NewSupabaseInvoiceRepository creates a new Supabase invoice repository
func NewSupabaseInvoiceRepository(supabaseClient *SupabaseClient, logger domain.Logger) domain.InvoiceRepository {
	return &SupabaseInvoiceRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Create persists a new invoice record. The caller has already assigned the
// id and created_at.
func (r *SupabaseInvoiceRepository) Create(record *domain.InvoiceRecord) error {
	client, err := r.supabaseClient.Client()
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"id":              record.ID,
		"file_name":       record.FileName,
		"vendor":          record.Vendor,
		"invoice_details": record.Invoice,
		"created_at":      record.CreatedAt,
	}
	if record.FileID != "" {
		data["file_id"] = record.FileID
	}

	_, _, err = client.From(invoicesTable).Insert(data, false, "", "minimal", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert invoice", err, "invoice_id", record.ID)
		return apperrors.NewPersistenceError("failed to create invoice", err)
	}

	r.logger.Info("Invoice created", "id", record.ID, "number", record.Invoice.Number)
	return nil
}

// GetByID retrieves an invoice by id. Absent or malformed ids map to
// domain.ErrInvoiceNotFound; lookup faults are logged, not surfaced.
func (r *SupabaseInvoiceRepository) GetByID(id string) (*domain.InvoiceRecord, error) {
	return r.getByColumn("id", id)
}

// GetByFileID retrieves the invoice correlated with an uploaded file.
func (r *SupabaseInvoiceRepository) GetByFileID(fileID string) (*domain.InvoiceRecord, error) {
	return r.getByColumn("file_id", fileID)
}

func (r *SupabaseInvoiceRepository) getByColumn(column, value string) (*domain.InvoiceRecord, error) {
	client, err := r.supabaseClient.Client()
	if err != nil {
		return nil, err
	}

	data, _, err := client.From(invoicesTable).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		// Malformed ids (e.g. not a uuid) fail the query; treat as absent.
		r.logger.Warn("Invoice lookup failed", "column", column, "value", value, "error", err)
		return nil, domain.ErrInvoiceNotFound
	}

	var rows []invoiceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		r.logger.Warn("Failed to decode invoice row", "error", err)
		return nil, domain.ErrInvoiceNotFound
	}
	if len(rows) == 0 {
		return nil, domain.ErrInvoiceNotFound
	}

	return rowToRecord(&rows[0]), nil
}

// List returns a page of invoices ordered by created_at descending, plus the
// total match count ignoring pagination. An empty search term matches all.
func (r *SupabaseInvoiceRepository) List(searchTerm string, limit, offset int) ([]*domain.InvoiceRecord, int64, error) {
	client, err := r.supabaseClient.Client()
	if err != nil {
		return nil, 0, err
	}

	query := client.From(invoicesTable).Select("*", "exact", false)
	if searchTerm != "" {
		term := sanitizeSearchTerm(searchTerm)
		query = query.Or(fmt.Sprintf("vendor->>name.ilike.*%s*,invoice_details->>number.ilike.*%s*", term, term), "")
	}
	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		query = query.Range(offset, offset+limit-1, "")
	}

	data, total, err := query.Execute()
	if err != nil {
		return nil, 0, apperrors.NewPersistenceError("failed to list invoices", err)
	}

	var rows []invoiceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, apperrors.NewPersistenceError("failed to decode invoice rows", err)
	}

	records := make([]*domain.InvoiceRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rowToRecord(&rows[i]))
	}
	return records, total, nil
}

// Update writes the merged record back. created_at is never touched.
func (r *SupabaseInvoiceRepository) Update(record *domain.InvoiceRecord) error {
	client, err := r.supabaseClient.Client()
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"file_name":       record.FileName,
		"vendor":          record.Vendor,
		"invoice_details": record.Invoice,
		"updated_at":      record.UpdatedAt,
	}
	if record.FileID != "" {
		data["file_id"] = record.FileID
	}

	_, _, err = client.From(invoicesTable).
		Update(data, "minimal", "").
		Eq("id", record.ID).
		Execute()
	if err != nil {
		r.logger.Error("Failed to update invoice", err, "invoice_id", record.ID)
		return apperrors.NewPersistenceError("failed to update invoice", err)
	}

	return nil
}

// Delete removes an invoice row. Deleting a missing id is not an error here;
// existence is checked by the service.
func (r *SupabaseInvoiceRepository) Delete(id string) error {
	client, err := r.supabaseClient.Client()
	if err != nil {
		return err
	}

	_, _, err = client.From(invoicesTable).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("Failed to delete invoice", err, "invoice_id", id)
		return apperrors.NewPersistenceError("failed to delete invoice", err)
	}

	return nil
}

func rowToRecord(row *invoiceRow) *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ID:        row.ID,
		FileID:    row.FileID,
		FileName:  row.FileName,
		Vendor:    row.Vendor,
		Invoice:   row.InvoiceDetails,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// sanitizeSearchTerm strips characters that carry meaning in PostgREST
// filter expressions so user input cannot break out of the or() group.
func sanitizeSearchTerm(term string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '%':
			return -1
		}
		return r
	}, term)
}

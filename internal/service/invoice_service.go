package service

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"github.com/google/uuid"
)

// invoiceBody is the editable part of a record, shared by create and the
// merge result of an update.
type invoiceBody struct {
	FileID   string                `json:"fileId,omitempty"`
	FileName string                `json:"fileName"`
	Vendor   domain.Vendor         `json:"vendor"`
	Invoice  domain.InvoiceDetails `json:"invoice"`
}

// InvoiceService implements domain.InvoiceService. It owns identity and
// timestamp assignment; the repository only persists.
type InvoiceService struct {
	repo   domain.InvoiceRepository
	logger domain.Logger
	now    func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(repo domain.InvoiceRepository, logger domain.Logger) *InvoiceService {
	return &InvoiceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// timestamp formats with nanosecond precision so consecutive updates within
// the same second still compare strictly.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Create validates the request body, assigns id and createdAt, and persists
// the record.
func (s *InvoiceService) Create(body []byte) (*domain.InvoiceRecord, error) {
	if err := validateJSON(invoiceCreateSchema, body); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice payload: " + err.Error())
	}

	var req invoiceBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice payload: " + err.Error())
	}

	record := &domain.InvoiceRecord{
		ID:        uuid.New().String(),
		FileID:    req.FileID,
		FileName:  req.FileName,
		Vendor:    req.Vendor,
		Invoice:   req.Invoice,
		CreatedAt: timestamp(s.now()),
	}

	if err := s.repo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns the record for an id, or domain.ErrInvoiceNotFound.
func (s *InvoiceService) Get(id string) (*domain.InvoiceRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvoiceNotFound
	}
	return s.repo.GetByID(id)
}

// GetByFileID returns the record correlated with an uploaded file id.
func (s *InvoiceService) GetByFileID(fileID string) (*domain.InvoiceRecord, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, domain.ErrInvoiceNotFound
	}
	return s.repo.GetByFileID(fileID)
}

// List returns a page of records plus the total match count.
func (s *InvoiceService) List(searchTerm string, limit, offset int) ([]*domain.InvoiceRecord, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.repo.List(strings.TrimSpace(searchTerm), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = make([]*domain.InvoiceRecord, 0)
	}
	return records, total, nil
}

// Update merges the patch into the stored record, re-validates the merged
// result, and refreshes updatedAt. The vendor and invoice sections are merged
// key-wise; lineItems is replaced wholesale when supplied.
func (s *InvoiceService) Update(id string, patch []byte) (*domain.InvoiceRecord, error) {
	if err := validateJSON(invoiceUpdateSchema, patch); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice update: " + err.Error())
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	merged, err := mergeInvoiceBody(existing, patch)
	if err != nil {
		return nil, err
	}

	if err := validateJSON(invoiceCreateSchema, merged); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice update: " + err.Error())
	}

	var body invoiceBody
	if err := json.Unmarshal(merged, &body); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice update: " + err.Error())
	}

	updated := &domain.InvoiceRecord{
		ID:        existing.ID,
		FileID:    body.FileID,
		FileName:  body.FileName,
		Vendor:    body.Vendor,
		Invoice:   body.Invoice,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: timestamp(s.now()),
	}

	if err := s.repo.Update(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reports whether a record existed and was removed. A missing id is
// not an error.
func (s *InvoiceService) Delete(id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.repo.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}

// mergeInvoiceBody overlays the patch onto the stored editable fields and
// returns the merged JSON.
func mergeInvoiceBody(existing *domain.InvoiceRecord, patch []byte) ([]byte, error) {
	base := invoiceBody{
		FileID:   existing.FileID,
		FileName: existing.FileName,
		Vendor:   existing.Vendor,
		Invoice:  existing.Invoice,
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to encode stored invoice", err)
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, apperrors.NewPersistenceError("failed to decode stored invoice", err)
	}

	var patchMap map[string]any
	if err := json.Unmarshal(patch, &patchMap); err != nil {
		return nil, apperrors.NewValidationError("invalid invoice update: " + err.Error())
	}

	for key, value := range patchMap {
		if key == "vendor" || key == "invoice" {
			section, baseOK := baseMap[key].(map[string]any)
			patchSection, patchOK := value.(map[string]any)
			if baseOK && patchOK {
				for k, v := range patchSection {
					section[k] = v
				}
				continue
			}
		}
		baseMap[key] = value
	}

	return json.Marshal(baseMap)
}

package domain

// Vendor identifies the party that issued the invoice.
type Vendor struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"taxId,omitempty"`
}

// LineItem is a single billed position. Totals are client-computed; the server
// validates shape and sign only.
type LineItem struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
}

// InvoiceDetails holds the extracted/edited invoice body.
type InvoiceDetails struct {
	Number     string     `json:"number"`
	Date       string     `json:"date"`
	Currency   string     `json:"currency,omitempty"`
	Subtotal   *float64   `json:"subtotal,omitempty"`
	TaxPercent *float64   `json:"taxPercent,omitempty"`
	Total      *float64   `json:"total,omitempty"`
	PONumber   string     `json:"poNumber,omitempty"`
	PODate     string     `json:"poDate,omitempty"`
	LineItems  []LineItem `json:"lineItems"`
}

// InvoiceRecord is the persisted entity. ID and CreatedAt are assigned once at
// creation; UpdatedAt is empty until the first successful update.
type InvoiceRecord struct {
	ID        string         `json:"id"`
	FileID    string         `json:"fileId,omitempty"`
	FileName  string         `json:"fileName"`
	Vendor    Vendor         `json:"vendor"`
	Invoice   InvoiceDetails `json:"invoice"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// InvoiceRepository defines persistence operations for invoice records.
// Missing ids are reported via ErrInvoiceNotFound, never via a generic error.
type InvoiceRepository interface {
	Create(record *InvoiceRecord) error
	GetByID(id string) (*InvoiceRecord, error)
	GetByFileID(fileID string) (*InvoiceRecord, error)
	List(searchTerm string, limit, offset int) ([]*InvoiceRecord, int64, error)
	Update(record *InvoiceRecord) error
	Delete(id string) error
}

// InvoiceService defines the use-case operations for invoice records.
// Create and Update take the raw request body so it can be validated against
// the invoice JSON schema before it is decoded.
type InvoiceService interface {
	Create(body []byte) (*InvoiceRecord, error)
	Get(id string) (*InvoiceRecord, error)
	GetByFileID(fileID string) (*InvoiceRecord, error)
	List(searchTerm string, limit, offset int) ([]*InvoiceRecord, int64, error)
	Update(id string, patch []byte) (*InvoiceRecord, error)
	Delete(id string) (bool, error)
}

// InvoiceExporter produces an XLSX workbook of invoice records.
type InvoiceExporter interface {
	ExportXLSX(searchTerm string) ([]byte, error)
}

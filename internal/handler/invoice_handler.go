// Package handler provides HTTP handlers for the API.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"invoice-extractor/internal/domain"

	"github.com/gorilla/mux"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService domain.InvoiceService
	exporter       domain.InvoiceExporter
	logger         domain.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService domain.InvoiceService, exporter domain.InvoiceExporter, logger domain.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		exporter:       exporter,
		logger:         logger,
	}
}

// ListInvoices handles GET /api/invoices with optional search and pagination
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	records, total, err := h.invoiceService.List(q, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list invoices", err, "q", q)
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"invoices": records,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoice handles GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	record, err := h.invoiceService.Get(vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record)
}

// GetInvoiceByFileID handles GET /api/files/{fileId}/invoice, the secondary
// lookup correlating an uploaded file with its saved record.
func (h *InvoiceHandler) GetInvoiceByFileID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	record, err := h.invoiceService.GetByFileID(vars["fileId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record)
}

// CreateInvoice handles POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", "")
		return
	}

	record, err := h.invoiceService.Create(body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, record)
}

// UpdateInvoice handles PUT /api/invoices/{id}
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", "")
		return
	}

	record, err := h.invoiceService.Update(vars["id"], body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record)
}

// DeleteInvoice handles DELETE /api/invoices/{id}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	deleted, err := h.invoiceService.Delete(vars["id"])
	if err != nil {
		h.logger.Error("Failed to delete invoice", err, "invoice_id", vars["id"])
		writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Invoice not found", "")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "Invoice deleted successfully"})
}

// ExportInvoices handles GET /api/invoices/export, streaming an XLSX workbook
// of all invoices matching the optional search term.
func (h *InvoiceHandler) ExportInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	workbook, err := h.exporter.ExportXLSX(q)
	if err != nil {
		h.logger.Error("Failed to export invoices", err, "q", q)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(workbook)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

// queryInt parses an integer query parameter, falling back to a default on
// absence or malformed input.
func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

package service

import (
	"fmt"
	"time"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// ExportService produces an XLSX workbook of invoice records.
type ExportService struct {
	repo   domain.InvoiceRepository
	logger domain.Logger
}

// NewExportService creates a new export service
func NewExportService(repo domain.InvoiceRepository, logger domain.Logger) *ExportService {
	return &ExportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportXLSX returns a workbook with one row per invoice matching the search
// term (all invoices when empty), in the same order as the list endpoint.
func (s *ExportService) ExportXLSX(searchTerm string) ([]byte, error) {
	start := time.Now()

	// limit 0 means no page bound in the repository
	records, _, err := s.repo.List(searchTerm, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, apperrors.NewPersistenceError("xlsx sheet", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Invoice Date",
		"Vendor",
		"Currency",
		"Subtotal",
		"Tax %",
		"Total",
		"Line Items",
		"File Name",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, rec.Invoice.Number)
		write(2, rec.Invoice.Date)
		write(3, rec.Vendor.Name)
		write(4, rec.Invoice.Currency)
		if rec.Invoice.Subtotal != nil {
			write(5, *rec.Invoice.Subtotal)
		}
		if rec.Invoice.TaxPercent != nil {
			write(6, *rec.Invoice.TaxPercent)
		}
		if rec.Invoice.Total != nil {
			write(7, *rec.Invoice.Total)
		}
		write(8, summarizeLineItems(rec.Invoice.LineItems))
		write(9, rec.FileName)
		write(10, rec.CreatedAt)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // number
	_ = f.SetColWidth(sheet, "B", "B", 12) // date
	_ = f.SetColWidth(sheet, "C", "C", 28) // vendor
	_ = f.SetColWidth(sheet, "E", "G", 12) // amounts
	_ = f.SetColWidth(sheet, "H", "H", 48) // line items
	_ = f.SetColWidth(sheet, "I", "I", 28) // file name

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewPersistenceError("xlsx write", err)
	}

	s.logger.Info("Invoices exported",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func summarizeLineItems(items []domain.LineItem) string {
	if len(items) == 0 {
		return ""
	}
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s x%g @ %g", item.Description, item.Quantity, item.UnitPrice)
	}
	return out
}

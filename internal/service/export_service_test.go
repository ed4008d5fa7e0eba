package service

import (
	"bytes"
	"testing"

	"invoice-extractor/internal/domain"

	"github.com/xuri/excelize/v2"
)

func ptr(v float64) *float64 { return &v }

func TestExportService_ExportXLSX(t *testing.T) {
	repo := newMockInvoiceRepo()
	repo.records["a"] = &domain.InvoiceRecord{
		ID:       "a",
		FileName: "alpha.pdf",
		Vendor:   domain.Vendor{Name: "Alpha Corp"},
		Invoice: domain.InvoiceDetails{
			Number:   "INV-1",
			Date:     "2024-01-15",
			Currency: "USD",
			Subtotal: ptr(100),
			Total:    ptr(110),
			LineItems: []domain.LineItem{
				{Description: "Widget", UnitPrice: 50, Quantity: 2, Total: 100},
			},
		},
		CreatedAt: "2024-01-16T10:00:00Z",
	}
	repo.records["b"] = &domain.InvoiceRecord{
		ID:       "b",
		FileName: "beta.pdf",
		Vendor:   domain.Vendor{Name: "Beta LLC"},
		Invoice: domain.InvoiceDetails{
			Number: "INV-2",
			Date:   "2024-02-01",
		},
		CreatedAt: "2024-02-02T10:00:00Z",
	}

	svc := NewExportService(repo, testLogger{})

	out, err := svc.ExportXLSX("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 0 {
		t.Errorf("export must request an unbounded list, got limit %d", repo.lastLimit)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("missing Invoices sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Invoice Number" || rows[0][2] != "Vendor" {
		t.Errorf("unexpected header row: %v", rows[0])
	}

	vendors := map[string]bool{}
	for _, row := range rows[1:] {
		if len(row) > 2 {
			vendors[row[2]] = true
		}
	}
	if !vendors["Alpha Corp"] || !vendors["Beta LLC"] {
		t.Errorf("expected both vendors in export, got %v", vendors)
	}
}

func TestExportService_ForwardsSearchTerm(t *testing.T) {
	repo := newMockInvoiceRepo()
	svc := NewExportService(repo, testLogger{})

	out, err := svc.ExportXLSX("acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch != "acme" {
		t.Errorf("expected search term forwarded, got %q", repo.lastSearch)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("missing Invoices sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only for empty result, got %d rows", len(rows))
	}
}

func TestSummarizeLineItems(t *testing.T) {
	items := []domain.LineItem{
		{Description: "Widget", UnitPrice: 50, Quantity: 2, Total: 100},
		{Description: "Gadget", UnitPrice: 10.5, Quantity: 1, Total: 10.5},
	}
	got := summarizeLineItems(items)
	want := "Widget x2 @ 50; Gadget x1 @ 10.5"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if summarizeLineItems(nil) != "" {
		t.Error("expected empty summary for no items")
	}
}

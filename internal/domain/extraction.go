package domain

import "context"

// ExtractionResult is the structured payload returned by the model, shaped
// exactly like the editable part of an invoice record.
type ExtractionResult struct {
	Vendor  Vendor         `json:"vendor"`
	Invoice InvoiceDetails `json:"invoice"`
}

// InvoiceExtractor converts PDF bytes into a validated ExtractionResult using
// an external generative model. An empty model name selects the configured
// default. There is no retry and no caching of results.
type InvoiceExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, model string) (*ExtractionResult, error)
}

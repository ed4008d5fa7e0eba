package service

// JSON-Schema maps (draft 2020-12 subset) for the invoice payloads. The same
// shapes gate manual form submissions and the model's structured output, so a
// record is valid regardless of which path produced it.

func lineItemSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"unitPrice":   map[string]any{"type": "number", "minimum": 0},
			"quantity":    map[string]any{"type": "number", "minimum": 1},
			"total":       map[string]any{"type": "number", "minimum": 0},
		},
		"required": []string{"description", "unitPrice", "quantity", "total"},
	}
}

func vendorSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "minLength": 1},
			"address": map[string]any{"type": "string"},
			"taxId":   map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}
}

func invoiceDetailsSchema(minLineItems int) map[string]any {
	lineItems := map[string]any{
		"type":  "array",
		"items": lineItemSchema(),
	}
	if minLineItems > 0 {
		lineItems["minItems"] = minLineItems
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"number":     map[string]any{"type": "string", "minLength": 1},
			"date":       map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"currency":   map[string]any{"type": "string"},
			"subtotal":   map[string]any{"type": "number"},
			"taxPercent": map[string]any{"type": "number"},
			"total":      map[string]any{"type": "number"},
			"poNumber":   map[string]any{"type": "string"},
			"poDate":     map[string]any{"type": "string"},
			"lineItems":  lineItems,
		},
		"required": []string{"number", "date"},
	}
}

// buildInvoiceCreateSchema is the contract for POST /api/invoices: an invoice
// record sans id/createdAt/updatedAt, with at least one line item.
func buildInvoiceCreateSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"fileId":   map[string]any{"type": "string"},
			"fileName": map[string]any{"type": "string", "minLength": 1},
			"vendor":   vendorSchema(),
			"invoice":  invoiceDetailsSchema(1),
		},
		"required": []string{"fileName", "vendor", "invoice"},
	}
}

// buildInvoiceUpdateSchema is the contract for PUT /api/invoices/{id}: any
// subset of the create fields; section bodies may themselves be partial.
func buildInvoiceUpdateSchema() map[string]any {
	partialVendor := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "minLength": 1},
			"address": map[string]any{"type": "string"},
			"taxId":   map[string]any{"type": "string"},
		},
	}
	partialInvoice := invoiceDetailsSchema(0)
	partialInvoice["required"] = []string{}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"minProperties":        1,
		"properties": map[string]any{
			"fileId":   map[string]any{"type": "string"},
			"fileName": map[string]any{"type": "string", "minLength": 1},
			"vendor":   partialVendor,
			"invoice":  partialInvoice,
		},
	}
}

// buildExtractionOutputSchema is the contract the model's JSON output must
// satisfy. Line items may be empty here; a scanned invoice with none is
// reviewed client-side before submission.
func buildExtractionOutputSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendor":  vendorSchema(),
			"invoice": invoiceDetailsSchema(0),
		},
		"required": []string{"vendor", "invoice"},
	}
}

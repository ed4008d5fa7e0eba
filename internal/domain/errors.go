package domain

import "errors"

// Sentinel errors for expected-absence conditions. Callers check these with
// errors.Is instead of relying on exception-style control flow.
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrFileNotFound    = errors.New("file not found")
)

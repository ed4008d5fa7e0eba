package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"
)

// envelope is the uniform response wrapper: {success, data} on success,
// {success:false, error:{message, code?}} on failure.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// writeSuccess writes a success envelope
func writeSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError writes an error envelope
func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Message: message, Code: code},
	})
}

// writeServiceError maps service and repository errors onto the envelope.
// Not-found sentinels become 404s; AppErrors keep their status and code;
// anything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvoiceNotFound) {
		writeError(w, http.StatusNotFound, "Invoice not found", "")
		return
	}
	if errors.Is(err, domain.ErrFileNotFound) {
		writeError(w, http.StatusNotFound, "File not found", "")
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeError(w, appErr.StatusCode, appErr.Message, appErr.Code)
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal server error", "")
}

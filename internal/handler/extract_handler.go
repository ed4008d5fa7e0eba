package handler

import (
	"encoding/json"
	"net/http"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"
)

type extractRequest struct {
	FileID string `json:"fileId"`
	Model  string `json:"model"`
}

// ExtractHandler handles AI extraction requests over previously uploaded files
type ExtractHandler struct {
	cache     domain.FileCache
	extractor domain.InvoiceExtractor
	logger    domain.Logger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(cache domain.FileCache, extractor domain.InvoiceExtractor, logger domain.Logger) *ExtractHandler {
	return &ExtractHandler{
		cache:     cache,
		extractor: extractor,
		logger:    logger,
	}
}

// ExtractInvoice looks up the cached file and delegates to the extraction
// adapter. An unknown fileId is a 404 and the adapter is never called.
func (h *ExtractHandler) ExtractInvoice(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", apperrors.CodeValidation)
		return
	}

	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId is required", apperrors.CodeValidation)
		return
	}

	cached, ok := h.cache.Get(req.FileID)
	if !ok {
		writeError(w, http.StatusNotFound, "File not found", "")
		return
	}

	result, err := h.extractor.Extract(r.Context(), cached.Buffer, cached.FileName, req.Model)
	if err != nil {
		h.logger.Error("Extraction failed", err, "file_id", req.FileID, "file_name", cached.FileName)
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

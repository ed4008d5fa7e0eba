package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"github.com/gorilla/mux"
)

var pdfMagic = []byte("%PDF")

// FileHandler handles upload and retrieval of cached PDF files
type FileHandler struct {
	cache  domain.FileCache
	config domain.Config
	logger domain.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(cache domain.FileCache, config domain.Config, logger domain.Logger) *FileHandler {
	return &FileHandler{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// UploadFile handles PDF upload. Non-PDF content and oversized payloads are
// rejected before anything reaches the cache.
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	maxSize := h.config.GetMaxUploadSize()

	// Slack for multipart framing; the file itself is checked against maxSize.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, sizeErrorMessage(maxSize), apperrors.CodeValidation)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required", apperrors.CodeValidation)
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		originalName = "invoice.pdf"
	}

	if strings.ToLower(filepath.Ext(originalName)) != ".pdf" {
		writeError(w, http.StatusBadRequest, "Only PDF files are accepted", apperrors.CodeValidation)
		return
	}

	if header.Size > maxSize {
		writeError(w, http.StatusBadRequest, sizeErrorMessage(maxSize), apperrors.CodeValidation)
		return
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", err, "file_name", originalName)
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file", "")
		return
	}

	// The extension can lie; the leading bytes cannot.
	if !bytes.HasPrefix(buf, pdfMagic) {
		writeError(w, http.StatusBadRequest, "Only PDF files are accepted", apperrors.CodeValidation)
		return
	}

	fileID := h.cache.Put(buf, originalName)
	cached, _ := h.cache.Get(fileID)

	h.logger.Info("File uploaded", "file_id", fileID, "file_name", originalName, "size", len(buf))

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"fileId":     fileID,
		"fileName":   originalName,
		"fileSize":   len(buf),
		"uploadedAt": cached.UploadedAt.Format(time.RFC3339Nano),
	})
}

// GetFile streams cached PDF bytes back to the client.
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fileID := vars["fileId"]

	cached, ok := h.cache.Get(fileID)
	if !ok {
		writeError(w, http.StatusNotFound, "File not found", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", cached.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(cached.Buffer)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(cached.Buffer)
}

func sizeErrorMessage(maxSize int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", maxSize/(1024*1024))
}

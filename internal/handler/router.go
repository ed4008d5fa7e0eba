package handler

import (
	"net/http"

	"invoice-extractor/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"invoice-extractor"}`))
	}).Methods("GET")

	// Initialize handlers
	fileHandler := NewFileHandler(container.FileCache, container.Config, container.Logger)
	extractHandler := NewExtractHandler(container.FileCache, container.Extractor, container.Logger)
	invoiceHandler := NewInvoiceHandler(container.InvoiceService, container.Exporter, container.Logger)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(LoggingMiddleware(container.Logger))

	// Upload and extraction
	api.HandleFunc("/upload", fileHandler.UploadFile).Methods("POST")
	api.HandleFunc("/extract", extractHandler.ExtractInvoice).Methods("POST")

	// Invoice routes ("/invoices/export" must be registered before "/invoices/{id}")
	api.HandleFunc("/invoices", invoiceHandler.ListInvoices).Methods("GET")
	api.HandleFunc("/invoices", invoiceHandler.CreateInvoice).Methods("POST")
	api.HandleFunc("/invoices/export", invoiceHandler.ExportInvoices).Methods("GET")
	api.HandleFunc("/invoices/{id}", invoiceHandler.GetInvoice).Methods("GET")
	api.HandleFunc("/invoices/{id}", invoiceHandler.UpdateInvoice).Methods("PUT")
	api.HandleFunc("/invoices/{id}", invoiceHandler.DeleteInvoice).Methods("DELETE")

	// File routes
	api.HandleFunc("/files/{fileId}", fileHandler.GetFile).Methods("GET")
	api.HandleFunc("/files/{fileId}/invoice", invoiceHandler.GetInvoiceByFileID).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: container.Config.GetAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}

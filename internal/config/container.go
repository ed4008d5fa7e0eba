package config

import (
	"invoice-extractor/internal/domain"
	"invoice-extractor/internal/repository"
	"invoice-extractor/internal/service"
	"invoice-extractor/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	SupabaseClient    *repository.SupabaseClient
	InvoiceRepository domain.InvoiceRepository
	FileCache         domain.FileCache
	InvoiceService    domain.InvoiceService
	Extractor         domain.InvoiceExtractor
	Exporter          domain.InvoiceExporter
}

// NewContainer creates a new dependency injection container.
// A missing Vertex AI project is fatal here; a missing Supabase configuration
// only surfaces once the store is first used.
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	supabaseClient := repository.NewSupabaseClient(config, appLogger)
	invoiceRepo := repository.NewSupabaseInvoiceRepository(supabaseClient, appLogger)
	fileCache := repository.NewFileCache()

	invoiceService := service.NewInvoiceService(invoiceRepo, appLogger)
	extractor, err := service.NewExtractionService(config, appLogger)
	if err != nil {
		return nil, err
	}
	exporter := service.NewExportService(invoiceRepo, appLogger)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		SupabaseClient:    supabaseClient,
		InvoiceRepository: invoiceRepo,
		FileCache:         fileCache,
		InvoiceService:    invoiceService,
		Extractor:         extractor,
		Exporter:          exporter,
	}, nil
}

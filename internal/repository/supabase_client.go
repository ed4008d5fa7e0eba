package repository

import (
	"sync"

	"invoice-extractor/internal/domain"
	apperrors "invoice-extractor/pkg/errors"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient wraps the shared PostgREST client. The connection is
// established lazily on first use and reused by every request, so a missing
// Supabase configuration only surfaces when the store is first touched.
type SupabaseClient struct {
	config domain.Config
	logger domain.Logger

	mu     sync.Mutex
	client *supabase.Client
}

// NewSupabaseClient creates a new Supabase client wrapper. No connection is
// made here.
func NewSupabaseClient(config domain.Config, logger domain.Logger) *SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Client returns the underlying Supabase client, initializing it on first use.
func (s *SupabaseClient) Client() (*supabase.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()
	if supabaseURL == "" || supabaseKey == "" {
		return nil, apperrors.NewConfigurationError("SUPABASE_URL and SUPABASE_ANON_KEY must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to create Supabase client", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized", "url", supabaseURL)
	return s.client, nil
}

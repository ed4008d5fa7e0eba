package config

import (
	"os"
	"strconv"
	"strings"

	"invoice-extractor/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort      string
	LogLevel        string
	MaxUploadSize   int64
	SupabaseURL     string
	SupabaseKey     string
	GoogleProjectID string
	VertexLocation  string
	GeminiModel     string
	AllowedOrigins  []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:      getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		MaxUploadSize:   getEnvInt64OrDefault("MAX_UPLOAD_SIZE", 25*1024*1024), // 25MB default
		SupabaseURL:     getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:     getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		GoogleProjectID: getEnvOrDefault("GOOGLE_CLOUD_PROJECT", ""),
		VertexLocation:  getEnvOrDefault("VERTEX_LOCATION", "us-central1"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-001"),
		AllowedOrigins:  getEnvListOrDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxUploadSize returns the maximum allowed upload size in bytes
func (c *AppConfig) GetMaxUploadSize() int64 {
	return c.MaxUploadSize
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetGoogleProjectID returns the Google Cloud project used for Vertex AI
func (c *AppConfig) GetGoogleProjectID() string {
	return c.GoogleProjectID
}

// GetVertexLocation returns the Vertex AI region
func (c *AppConfig) GetVertexLocation() string {
	return c.VertexLocation
}

// GetGeminiModel returns the default extraction model name
func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

// GetAllowedOrigins returns the CORS allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) > 0 {
			return origins
		}
	}
	return defaultValue
}

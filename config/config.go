package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// LogLevel is parsed with logrus.ParseLevel
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	// Extraction service (Firecrawl) configuration
	Extraction struct {
		APIKey  string `env:"FIRECRAWL_API_KEY,required"`
		BaseURL string `env:"FIRECRAWL_BASE_URL" envDefault:"https://api.firecrawl.dev"`

		// Interval between job status polls
		PollInterval time.Duration `env:"EXTRACTION_POLL_INTERVAL" envDefault:"2s"`

		// Maximum time to wait for one extraction job
		Timeout time.Duration `env:"EXTRACTION_TIMEOUT" envDefault:"3m"`

		// Maximum number of retries for failed HTTP calls
		MaxRetries int `env:"EXTRACTION_MAX_RETRIES" envDefault:"3"`

		// Initial delay between retries, grows exponentially
		RetryDelay time.Duration `env:"EXTRACTION_RETRY_DELAY" envDefault:"1s"`
	}

	// Narrative service (Anthropic) configuration
	Narrative struct {
		APIKey    string `env:"ANTHROPIC_API_KEY,required"`
		Model     string `env:"NARRATIVE_MODEL" envDefault:"claude-sonnet-4-5"`
		MaxTokens int64  `env:"NARRATIVE_MAX_TOKENS" envDefault:"2048"`
	}

	Search struct {
		// Number of listings returned when a request does not set a limit
		DefaultLimit int `env:"SEARCH_DEFAULT_LIMIT" envDefault:"10"`

		// Listings per page for paginated responses
		PageSize int `env:"SEARCH_PAGE_SIZE" envDefault:"5"`
	}

	Geocoding struct {
		// Nominatim search endpoint used for cities without static coordinates
		Endpoint string `env:"GEOCODING_ENDPOINT" envDefault:"https://nominatim.openstreetmap.org/search"`

		// Directory for the geocode cache; in-memory only when empty
		CacheDir string `env:"GEOCODING_CACHE_DIR"`

		// Disables coordinate lookups entirely
		Disabled bool `env:"GEOCODING_DISABLED" envDefault:"false"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/swissprop.db"`
	}

	Telemetry struct {
		// OTLP HTTP endpoint; tracing stays disabled when empty
		Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"swissprop-server"`
	}
}

// LoadConfig reads optional .env files and parses the environment into a Config.
// A missing default .env file is not an error; an explicitly named one is.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Search.DefaultLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_DEFAULT_LIMIT must be positive, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.PageSize <= 0 {
		return nil, fmt.Errorf("SEARCH_PAGE_SIZE must be positive, got %d", cfg.Search.PageSize)
	}
	return cfg, nil
}

package rentlens

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the client needs to reach the backend. Values come
// from the environment; a .env file is honored for development.
type Config struct {
	// BackendURL is the base URL of the backend API.
	BackendURL string `env:"RENTLENS_BACKEND_URL,required"`

	// APIKey is the anonymous API key presented on every request.
	APIKey string `env:"RENTLENS_API_KEY,required"`

	// SessionPath is where the session record is persisted.
	SessionPath string `env:"RENTLENS_SESSION_PATH" envDefault:".rentlens/session.json"`

	// DatabaseDSN is the local database used for cached resources.
	DatabaseDSN string `env:"RENTLENS_DATABASE_DSN" envDefault:"file:rentlens.db?cache=shared"`

	// HTTPAddr is the listen address for the server binary.
	HTTPAddr string `env:"RENTLENS_HTTP_ADDR" envDefault:":8080"`

	// StorageRPS throttles outbound storage requests.
	StorageRPS   float64 `env:"RENTLENS_STORAGE_RPS" envDefault:"10"`
	StorageBurst int     `env:"RENTLENS_STORAGE_BURST" envDefault:"5"`
}

// LoadConfig reads the .env file if present, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate fails closed: a missing or placeholder credential must stop the
// process rather than let it run half-configured against the wrong backend.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("backend url must be absolute, got %q", c.BackendURL)
	}

	if isPlaceholder(c.BackendURL) {
		return errors.New("backend url is a placeholder value")
	}

	if isPlaceholder(c.APIKey) {
		return errors.New("api key is a placeholder value")
	}

	return nil
}

func isPlaceholder(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return true
	}

	markers := []string{"changeme", "change-me", "your-", "todo", "example.com", "<", "xxx"}
	for _, marker := range markers {
		if strings.Contains(v, marker) {
			return true
		}
	}

	return false
}

package rentlens_test

import (
	"testing"

	"github.com/rentlens/rentlens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("RENTLENS_BACKEND_URL", "https://api.rentlens.test")
	t.Setenv("RENTLENS_API_KEY", "anon-key-123")

	cfg, err := rentlens.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.rentlens.test", cfg.BackendURL)
	assert.Equal(t, "anon-key-123", cfg.APIKey)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.NotEmpty(t, cfg.SessionPath)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadConfigFailsWithoutBackendURL(t *testing.T) {
	t.Setenv("RENTLENS_BACKEND_URL", "")
	t.Setenv("RENTLENS_API_KEY", "anon-key-123")

	_, err := rentlens.LoadConfig()
	require.Error(t, err)
}

func TestConfigValidateFailsClosedOnPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		cfg  rentlens.Config
	}{
		{"placeholder key", rentlens.Config{BackendURL: "https://api.rentlens.test", APIKey: "changeme"}},
		{"template key", rentlens.Config{BackendURL: "https://api.rentlens.test", APIKey: "<your-api-key>"}},
		{"placeholder url", rentlens.Config{BackendURL: "https://your-project.example.com", APIKey: "anon-key-123"}},
		{"relative url", rentlens.Config{BackendURL: "api.rentlens.test", APIKey: "anon-key-123"}},
		{"empty key", rentlens.Config{BackendURL: "https://api.rentlens.test", APIKey: ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestConfigValidateAcceptsRealValues(t *testing.T) {
	cfg := rentlens.Config{
		BackendURL: "https://api.rentlens.io",
		APIKey:     "anon-key-123",
	}

	assert.NoError(t, cfg.Validate())
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_TypesenseConfig(t *testing.T) {
	os.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	os.Setenv("TYPESENSE_API_KEY", "test-key")
	defer func() {
		os.Unsetenv("TYPESENSE_URL")
		os.Unsetenv("TYPESENSE_API_KEY")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("TYPESENSE_URL")
	os.Unsetenv("TYPESENSE_API_KEY")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("PRICEBOOK_PRICES_PATH")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "xyz", cfg.Typesense.APIKey)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "data/prices.json", cfg.PriceBook.PricesPath)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoad_BackendCallback(t *testing.T) {
	os.Setenv("BACKEND_BASE_URL", "http://app-server:8080")
	defer os.Unsetenv("BACKEND_BASE_URL")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "http://app-server:8080", cfg.Backend.BaseURL)
}

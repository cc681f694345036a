package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://variantd.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, 100, cfg.VariantLimit)
	assert.Equal(t, 300, cfg.ValidateDebounceMS)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VARIANT_LIMIT", "50")
	t.Setenv("VALIDATE_DEBOUNCE_MS", "150")
	t.Setenv("API_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.VariantLimit)
	assert.Equal(t, 150, cfg.ValidateDebounceMS)
	assert.Equal(t, "9999", cfg.APIPort)
}

func TestLoadIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("VARIANT_LIMIT", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.VariantLimit)
}

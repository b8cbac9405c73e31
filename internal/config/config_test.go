package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 300, cfg.BalanceCacheTTL)
	assert.Equal(t, 10.0, cfg.DefaultCommissionRate)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BALANCE_CACHE_TTL", "60")
	t.Setenv("DEFAULT_COMMISSION_RATE", "12.5")
	t.Setenv("DEFAULT_CURRENCY", "EUR")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 60, cfg.BalanceCacheTTL)
	assert.Equal(t, 12.5, cfg.DefaultCommissionRate)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("BALANCE_CACHE_TTL", "soon")
	t.Setenv("DEFAULT_COMMISSION_RATE", "ten")

	cfg := Load()

	assert.Equal(t, 300, cfg.BalanceCacheTTL)
	assert.Equal(t, 10.0, cfg.DefaultCommissionRate)
}

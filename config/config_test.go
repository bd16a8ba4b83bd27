package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DefaultZones, cfg.Zones)
	assert.Empty(t, cfg.ResolverAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "badger", cfg.DBType)
	assert.Equal(t, "repquery-status", cfg.DBPath)
	assert.False(t, cfg.ExternalTLS)
}

func TestFromEnvZones(t *testing.T) {
	t.Setenv("ZONES", "bl.example.com, wl.example.com ,other.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	// declaration order is preserved
	assert.Equal(t, []string{"bl.example.com", "wl.example.com", "other.example.com"}, cfg.Zones)
}

func TestFromEnvEmptyZones(t *testing.T) {
	t.Setenv("ZONES", " , ,")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvResolverAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.0.0.1", "10.0.0.1:53"},
		{"10.0.0.1:5353", "10.0.0.1:5353"},
		{"2001:db8::1", "[2001:db8::1]:53"},
		{"[2001:db8::1]:5353", "[2001:db8::1]:5353"},
		{"resolver.internal", "resolver.internal:53"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Setenv("RESOLVER_ADDR", tt.in)

			cfg, err := FromEnv()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ResolverAddr)
		})
	}
}

func TestFromEnvExternalTLS(t *testing.T) {
	t.Setenv("EXTERNAL_TLS", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.ExternalTLS)

	t.Setenv("EXTERNAL_TLS", "not-a-bool")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_NoConfig(t *testing.T) {
	require.Nil(t, FromContext(context.Background()))
}

func TestWithContext_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), &cfg)
	require.Same(t, &cfg, FromContext(ctx))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, int64(10), cfg.ActivityRetention)
	require.False(t, cfg.StrictFilters)
	require.Equal(t, 8080, cfg.Listener.Port)
}

func TestCORSOriginList(t *testing.T) {
	var cfg *Config
	require.Nil(t, cfg.CORSOriginList())

	cfg = &Config{CORSOrigins: " https://a.example , https://b.example ,"}
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOriginList())
}

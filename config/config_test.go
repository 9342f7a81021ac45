package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	require.Equal(t, "emails", cfg.RabbitMQEmailQueue)
	require.Empty(t, cfg.ESAddrs(), "search disabled unless addresses are set")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RESET_TOKEN_TTL", "15m")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.ResetTokenTTL)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSOrigins())
	require.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	require.Contains(t, cfg.PostgresDSN(), "sslmode=require")
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")
	cfg := Load()
	require.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
}

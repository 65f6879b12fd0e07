package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Junior-189/CITT-Project-sub001/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.edu", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "citt-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 45*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 180, cfg.Audit.RetentionDays)
	require.Equal(t, "30 2 * * *", cfg.Audit.CleanupSpec)

	require.Equal(t, []string{"https://innovation.example.edu"}, cfg.CORS.AllowedOrigins)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.True(t, cfg.Monitoring.Health.Enabled, "default survives partial file")

	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 60, cfg.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 365, cfg.Audit.RetentionDays)
	require.Equal(t, "0 3 * * *", cfg.Audit.CleanupSpec)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.Equal(t, "admin@citt.local", cfg.Auth.Bootstrap.Email)
	require.Empty(t, cfg.Auth.Bootstrap.Password)
}

func TestJWTServiceConfigAdapter(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: "s", Issuer: "i", TTL: time.Hour}}
	require.Equal(t, auth.JWTConfig{Secret: "s", Issuer: "i", AccessTokenTTL: time.Hour}, cfg.JWTServiceConfig())

	var empty AuthConfig
	require.Equal(t, auth.DefaultAccessTokenTTL, empty.JWTServiceConfig().AccessTokenTTL)
}

func TestConnectionConfigAdapter(t *testing.T) {
	cfg := DatabaseConfig{
		Driver: "postgres",
		Postgres: DBAuthConfig{
			Enabled:  true,
			Host:     "db.example.edu",
			Port:     5433,
			Database: "citt",
			Username: "citt_app",
			Password: "citt_pass",
		},
	}

	conn := cfg.ConnectionConfig()
	require.Equal(t, "postgres", conn.Driver)
	require.Equal(t, "db.example.edu", conn.Host)
	require.Equal(t, 5433, conn.Port)
	require.Equal(t, "citt", conn.Name)
	require.Equal(t, "citt_app", conn.User)

	sqlite := DatabaseConfig{Driver: "sqlite", Path: "./data/citt.sqlite"}
	require.Equal(t, "./data/citt.sqlite", sqlite.ConnectionConfig().Path)
	require.Empty(t, sqlite.ConnectionConfig().Host)
}

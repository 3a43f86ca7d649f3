package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"DATASET_PATH", "SPREADSHEET_PATH", "DATABASE_URL", "AUTH_ENABLED", "UPLOAD_MAX_BYTES", "SKIP_ROWS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "ticket_data.json", cfg.Dataset.Path)
	assert.Equal(t, "ticket_data.xlsx", cfg.Dataset.SpreadsheetPath)
	assert.Equal(t, int64(10<<20), cfg.Dataset.UploadMaxBytes)
	assert.Equal(t, 3, cfg.Dataset.SkipRows)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATASET_PATH", "/data/ticket_data.json")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tickets")
	t.Setenv("INGEST_TIMEOUT", "2m")
	t.Setenv("WS_ALLOWED_ORIGINS", "dash.example.com, *.example.org ,")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "/data/ticket_data.json", cfg.Dataset.Path)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 2*time.Minute, cfg.Dataset.IngestTimeout)
	assert.Equal(t, []string{"dash.example.com", "*.example.org"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, float64(20), cfg.RateLimit.RequestsPerSecond)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "auth without secret",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "JWT_SECRET is required",
		},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Auth.Enabled = true
				c.Auth.Secret = "short"
				c.WebSocket.AllowedOrigins = []string{"dash.example.com"}
			},
			wantErr: "at least 32 characters",
		},
		{
			name:    "production without websocket origins",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: "WS_ALLOWED_ORIGINS",
		},
		{
			name:    "non-positive upload limit",
			mutate:  func(c *Config) { c.Dataset.UploadMaxBytes = 0 },
			wantErr: "UPLOAD_MAX_BYTES",
		},
		{
			name:    "ping slower than pong wait",
			mutate:  func(c *Config) { c.WebSocket.PingInterval = time.Minute },
			wantErr: "WS_PING_INTERVAL",
		},
		{
			name: "idle connections above open",
			mutate: func(c *Config) {
				c.Database.MaxOpenConns = 1
				c.Database.MaxIdleConns = 2
			},
			wantErr: "DB_MAX_IDLE_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestString_RedactsSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = "postgres://admin:hunter2@db:5432/tickets"
	cfg.Auth.Secret = "super-secret-value"

	s := cfg.String()

	assert.NotContains(t, s, "hunter2")
	assert.NotContains(t, s, "super-secret-value")
	assert.Contains(t, s, "@db:5432/tickets")
}

func validConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:            "ticket_data.json",
			SpreadsheetPath: "ticket_data.xlsx",
			UploadMaxBytes:  10 << 20,
			SkipRows:        3,
		},
		Database: DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 2},
		WebSocket: WebSocketConfig{
			PingInterval: 54 * time.Second,
			PongWait:     60 * time.Second,
		},
		App: AppConfig{Environment: "development"},
	}
}

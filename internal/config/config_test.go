package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "posdelivery-api", cfg.App.Name)
	assert.Equal(t, 14, cfg.Cleanup.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.Cleanup.Interval)
	assert.Equal(t, "aggregate", cfg.Delivery.CompletionMode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadReadsEnvFileAndEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DELIVERY_COMPLETION_MODE=Strict\nCLEANUP_RETENTION_DAYS=7\nREDIS_ADDR=localhost:6379\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv never overrides variables that are already set
	t.Setenv("CLEANUP_RETENTION_DAYS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Cleanup(func() {
		os.Unsetenv("DELIVERY_COMPLETION_MODE")
		os.Unsetenv("REDIS_ADDR")
	})

	cfg, err := LoadFrom(envFile)
	require.NoError(t, err)

	assert.Equal(t, "strict", cfg.Delivery.CompletionMode)
	assert.Equal(t, 30, cfg.Cleanup.RetentionDays)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", Name: "pos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}

func TestStoragePublicURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		served  string
		wantErr bool
	}{
		{"local path", "/files/", "/files", false},
		{"external", "https://cdn.example.com/pos", "", false},
		{"root", "/", "", true},
		{"api prefix", "/api/files", "", true},
		{"relative", "files", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE_PUBLIC_URL", tt.url)

			cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.served, cfg.Storage.ServedPath())
		})
	}
}

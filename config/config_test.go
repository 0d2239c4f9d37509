package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setProvider(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role-key")
	t.Setenv("SUPABASE_STORAGE_BUCKET", "")
	t.Setenv("SUPABASE_STORAGE_TIMEOUT", "")
	t.Setenv("SUPABASE_DB_TIMEOUT", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("RXV_DEBUG", "")
}

func TestLoadRequiresProviderSettings(t *testing.T) {
	setProvider(t)

	t.Setenv("SUPABASE_URL", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	setProvider(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL, "trailing slash is trimmed")
	assert.Equal(t, "service-role-key", cfg.ServiceRoleKey)
	assert.Equal(t, "prescriptions", cfg.Bucket)
	assert.Equal(t, 10*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 20*time.Second, cfg.DBTimeout)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, "change-me", cfg.SessionSecret)
	assert.Equal(t, 5000, cfg.Port)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	setProvider(t)
	t.Setenv("SUPABASE_STORAGE_BUCKET", "rx-images")
	t.Setenv("SUPABASE_STORAGE_TIMEOUT", "2.5")
	t.Setenv("SUPABASE_DB_TIMEOUT", "5")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "3")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	t.Setenv("PORT", "8080")
	t.Setenv("RXV_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rx-images", cfg.Bucket)
	assert.Equal(t, 2500*time.Millisecond, cfg.StorageTimeout)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 3, cfg.MaxUploadMB)
	assert.Equal(t, "s3cr3t", cfg.SessionSecret)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SUPABASE_STORAGE_TIMEOUT", "soon"},
		{"SUPABASE_DB_TIMEOUT", "-1"},
		{"MAX_UPLOAD_SIZE_MB", "0"},
		{"MAX_UPLOAD_SIZE_MB", "ten"},
		{"PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setProvider(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

// Package config loads the process configuration from the environment once at
// startup. The resulting Config is immutable and passed explicitly into the
// clients and the web server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBucket         = "prescriptions"
	defaultStorageTimeout = 10 * time.Second
	defaultDBTimeout      = 20 * time.Second
	defaultMaxUploadMB    = 10
	defaultSessionSecret  = "change-me"
	defaultPort           = 5000
)

// Config holds every runtime setting of the panel. All durable state lives in
// the remote provider, so this is the only process-wide state besides the
// session cookie secret.
type Config struct {
	SupabaseURL    string
	ServiceRoleKey string
	Bucket         string
	StorageTimeout time.Duration
	DBTimeout      time.Duration
	MaxUploadMB    int
	SessionSecret  string
	Port           int
	Debug          bool
}

// Load reads the configuration from the environment. A missing provider URL or
// service credential is a startup error.
func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		ServiceRoleKey: strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_ROLE_KEY")),
		Bucket:         envStr("SUPABASE_STORAGE_BUCKET", defaultBucket),
		SessionSecret:  envStr("SESSION_SECRET", defaultSessionSecret),
		Debug:          os.Getenv("RXV_DEBUG") == "true",
	}

	if cfg.SupabaseURL == "" || cfg.ServiceRoleKey == "" {
		return nil, fmt.Errorf("missing SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY in environment")
	}

	var err error
	if cfg.StorageTimeout, err = envSeconds("SUPABASE_STORAGE_TIMEOUT", defaultStorageTimeout); err != nil {
		return nil, err
	}
	if cfg.DBTimeout, err = envSeconds("SUPABASE_DB_TIMEOUT", defaultDBTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = envInt("MAX_UPLOAD_SIZE_MB", defaultMaxUploadMB); err != nil {
		return nil, err
	}
	if cfg.Port, err = envInt("PORT", defaultPort); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MaxUploadBytes returns the configured upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func envStr(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func envSeconds(key string, def time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def, nil
	}
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %q", key, value)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

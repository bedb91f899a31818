package publish

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrNotConfigured is returned when publishing is requested without a bucket
var ErrNotConfigured = errors.New("s3 publishing is not configured")

// DefaultTimeout bounds a single upload
const DefaultTimeout = 30 * time.Second

// Config holds the S3 destination and credentials
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for S3-compatible stores
	AccessKey string
	SecretKey string
	Prefix    string // prepended to every object key
	Timeout   time.Duration
}

// getEnv returns the environment variable or fallback when it is unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ConfigFromEnv reads RTIOW_S3_* variables. A .env file in the working directory,
// or the file named by RTIOW_ENV_FILE, is loaded first when present; variables
// already set in the environment win.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load(getEnv("RTIOW_ENV_FILE", ".env"))

	cfg := Config{
		Bucket:    os.Getenv("RTIOW_S3_BUCKET"),
		Region:    getEnv("RTIOW_S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("RTIOW_S3_ENDPOINT"),
		AccessKey: os.Getenv("RTIOW_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("RTIOW_S3_SECRET_KEY"),
		Prefix:    os.Getenv("RTIOW_S3_PREFIX"),
		Timeout:   DefaultTimeout,
	}

	if raw := os.Getenv("RTIOW_S3_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid RTIOW_S3_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = timeout
	}

	return cfg, cfg.Validate()
}

// Validate checks that an upload could be attempted
func (c Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: RTIOW_S3_BUCKET is empty", ErrNotConfigured)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%w: access key and secret key must be set together", ErrNotConfigured)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrNotConfigured, c.Timeout)
	}
	return nil
}

// Key joins the configured prefix and name into an object key
func (c Config) Key(name string) string {
	prefix := strings.Trim(c.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + strings.TrimLeft(name, "/")
}

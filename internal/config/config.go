// Package config handles configuration for the kiosk binary, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the kiosk.
//
// Durations: UploadAttemptTimeout bounds a single artifact upload;
// NotificationTimeout bounds the detached webhook call; IdleWarning and
// IdleReset are both measured from the last user activity, so the visible
// countdown lasts IdleReset - IdleWarning.
type Config struct {
	BackupDir       string
	ExportDir       string
	DatabasePath    string
	ReferencePrefix string

	MaxRetryAttempts     int
	UploadAttemptTimeout time.Duration
	NotificationTimeout  time.Duration

	IdleWarning time.Duration
	IdleReset   time.Duration

	ProbeAddr string
	NotifyURL string
	AdminAddr string

	LogLevel  string
	LogFormat string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with development defaults.
// NOTE: The S3 credentials are insecure and must be overridden in the field.
func (c *Config) LoadDefaults() {
	c.BackupDir = "data/pending"
	c.ExportDir = "data/export"
	c.DatabasePath = "kiosk.db"
	c.ReferencePrefix = "KSK"

	c.MaxRetryAttempts = 3
	c.UploadAttemptTimeout = 30 * time.Second
	c.NotificationTimeout = 15 * time.Second

	c.IdleWarning = 600 * time.Second
	c.IdleReset = 630 * time.Second

	c.ProbeAddr = "127.0.0.1:9000"
	c.NotifyURL = ""
	c.AdminAddr = "127.0.0.1:8090"

	c.LogLevel = "info"
	c.LogFormat = "text"

	c.S3Bucket = "applications"
	c.S3Region = "us-east-1"
	c.S3Endpoint = "http://127.0.0.1:9000/"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.IdleReset <= c.IdleWarning {
		return errors.New("idle reset threshold must be greater than the idle warning threshold")
	}
	if c.MaxRetryAttempts < 1 {
		return errors.New("max retry attempts must be at least 1")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

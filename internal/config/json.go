package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/formkiosk/internal/flagx"
	"github.com/dmitrijs2005/formkiosk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so durations can be written either as strings like
// "30s" or as integer nanoseconds. Absent fields leave the current value
// untouched.
type JsonConfig struct {
	BackupDir       *string `json:"backup_dir"`
	ExportDir       *string `json:"export_dir"`
	DatabasePath    *string `json:"database_path"`
	ReferencePrefix *string `json:"reference_prefix"`

	MaxRetryAttempts     *int            `json:"max_retry_attempts"`
	UploadAttemptTimeout *timex.Duration `json:"upload_attempt_timeout"`
	NotificationTimeout  *timex.Duration `json:"notification_timeout"`

	IdleWarning *timex.Duration `json:"idle_warning"`
	IdleReset   *timex.Duration `json:"idle_reset"`

	ProbeAddr *string `json:"probe_addr"`
	NotifyURL *string `json:"notify_url"`
	AdminAddr *string `json:"admin_addr"`

	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`

	S3Bucket    *string `json:"s3_bucket"`
	S3Region    *string `json:"s3_region"`
	S3Endpoint  *string `json:"s3_endpoint"`
	S3AccessKey *string `json:"s3_access_key"`
	S3SecretKey *string `json:"s3_secret_key"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. No flag, no overlay.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	applyJson(cfg, &jc)
	return nil
}

func applyJson(cfg *Config, jc *JsonConfig) {
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ReferencePrefix, jc.ReferencePrefix)

	if jc.MaxRetryAttempts != nil {
		cfg.MaxRetryAttempts = *jc.MaxRetryAttempts
	}
	setDuration(&cfg.UploadAttemptTimeout, jc.UploadAttemptTimeout)
	setDuration(&cfg.NotificationTimeout, jc.NotificationTimeout)
	setDuration(&cfg.IdleWarning, jc.IdleWarning)
	setDuration(&cfg.IdleReset, jc.IdleReset)

	setString(&cfg.ProbeAddr, jc.ProbeAddr)
	setString(&cfg.NotifyURL, jc.NotifyURL)
	setString(&cfg.AdminAddr, jc.AdminAddr)

	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

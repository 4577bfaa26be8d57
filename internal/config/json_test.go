package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyJson_OverridesOnlyPresentFields(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	raw := `{
		"backup_dir": "/var/kiosk/pending",
		"max_retry_attempts": 5,
		"upload_attempt_timeout": "45s",
		"idle_warning": "5m",
		"idle_reset": "5m30s",
		"s3_bucket": "intake"
	}`

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &jc))
	applyJson(cfg, &jc)

	assert.Equal(t, "/var/kiosk/pending", cfg.BackupDir)
	assert.Equal(t, 5, cfg.MaxRetryAttempts)
	assert.Equal(t, 45*time.Second, cfg.UploadAttemptTimeout)
	assert.Equal(t, 5*time.Minute, cfg.IdleWarning)
	assert.Equal(t, 5*time.Minute+30*time.Second, cfg.IdleReset)
	assert.Equal(t, "intake", cfg.S3Bucket)

	// untouched fields keep their defaults
	assert.Equal(t, "kiosk.db", cfg.DatabasePath)
	assert.Equal(t, 15*time.Second, cfg.NotificationTimeout)
}

func TestApplyJson_NanosecondDurations(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{"notification_timeout": 20000000000}`), &jc))
	applyJson(cfg, &jc)

	assert.Equal(t, 20*time.Second, cfg.NotificationTimeout)
}

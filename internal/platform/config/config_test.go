package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"MERIDIAN_ADDR", "ENVIRONMENT", "LOG_LEVEL", "ADMIN_API_TOKEN", "AUDIT_TOPIC", "RECONCILE_SCHEDULE", "VERIFICATION_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "meridian.audit.events", cfg.Kafka.AuditTopic)
	assert.Equal(t, "@every 15m", cfg.Verification.ReconcileSchedule)
	assert.Equal(t, 5*time.Second, cfg.Verification.Timeout)
	assert.False(t, cfg.Verification.Configured())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MERIDIAN_ADDR", ":9090")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("VERIFICATION_TIMEOUT", "2s")
	t.Setenv("RECONCILE_SCHEDULE", "0 */5 * * * *")
	t.Setenv("RECONCILE_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, 2*time.Second, cfg.Verification.Timeout)
	assert.Equal(t, "0 */5 * * * *", cfg.Verification.ReconcileSchedule)
	assert.False(t, cfg.Verification.ReconcileEnabled)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("VERIFICATION_TIMEOUT", "soon")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VERIFICATION_TIMEOUT")
	})
	t.Run("integer", func(t *testing.T) {
		t.Setenv("REDIS_POOL_SIZE", "many")
		_, err := FromEnv()
		require.Error(t, err)
	})
}

func TestFromEnvRequiresAdminTokenInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADMIN_API_TOKEN", "")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("ADMIN_API_TOKEN", "s3cret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestVerificationConfigured(t *testing.T) {
	v := Verification{BaseURL: "https://kyc.example", AppToken: "tok"}
	assert.False(t, v.Configured())
	v.SecretKey = "key"
	assert.True(t, v.Configured())
}

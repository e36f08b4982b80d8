package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "EVENT_SINK", "TRACKING_INTERVAL_SECONDS", "DELIVERY_ETA_MINUTES", "ALLOW_CANCEL_AFTER_DELIVERY", "DEMO_EMAIL", "AUTH_TRUST_USER_HEADER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, SinkNone, cfg.Events.Sink)
	assert.Equal(t, 30*time.Second, cfg.Business.TrackingInterval)
	assert.Equal(t, time.Hour, cfg.Business.DeliveryETA)
	assert.False(t, cfg.Business.AllowCancelAfterDelivery)
	assert.Equal(t, "testuser@grocio.com", cfg.Auth.DemoEmail)
	assert.False(t, cfg.Auth.TrustUserHeader)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("TRACKING_INTERVAL_SECONDS", "5")
	t.Setenv("ALLOW_CANCEL_AFTER_DELIVERY", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Business.TrackingInterval)
	assert.True(t, cfg.Business.AllowCancelAfterDelivery)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoadIgnoresNonPositiveDurations(t *testing.T) {
	t.Setenv("TRACKING_INTERVAL_SECONDS", "0")
	t.Setenv("DELIVERY_ETA_MINUTES", "-5")
	t.Setenv("STORAGE_WRITE_TIMEOUT_SECONDS", "0")
	t.Setenv("TOKEN_TTL_MINUTES", "-1")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.Business.TrackingInterval)
	assert.Equal(t, time.Hour, cfg.Business.DeliveryETA)
	assert.Equal(t, 5*time.Second, cfg.Storage.WriteTimeout)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_PORT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "STATE_TTL_MINUTES",
	"ALERT_RETENTION_HOURS", "DEVICE_ID", "TICK_INTERVAL_MS", "RANDOM_SEED", "MAX_SERIES_POINTS",
	"WARM_START", "MQTT_BROKER", "MQTT_CLIENT_ID", "MQTT_USERNAME", "MQTT_PASSWORD", "MQTT_QOS",
	"MQTT_TOPIC_PREFIX", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv пустое значение равносильно отсутствию переменной
func clearEnv(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "", cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.StateTTL)
	assert.Equal(t, 24*time.Hour, cfg.AlertRetention)

	assert.Equal(t, "dev_001", cfg.DeviceID)
	assert.Equal(t, 3*time.Second, cfg.TickInterval)
	assert.Equal(t, uint64(0), cfg.RandomSeed)
	assert.Equal(t, 90, cfg.MaxSeriesPoints)
	assert.True(t, cfg.WarmStart)

	assert.False(t, cfg.MQTT.Enabled())
	assert.Equal(t, "healthsync-monitor", cfg.MQTT.ClientID)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "healthsync", cfg.MQTT.TopicPrefix)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TICK_INTERVAL_MS", "500")
	t.Setenv("DEVICE_ID", "dev_042")
	t.Setenv("RANDOM_SEED", "1234")
	t.Setenv("WARM_START", "false")
	t.Setenv("MQTT_BROKER", "tcp://mosquitto:1883")
	t.Setenv("MQTT_QOS", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "dev_042", cfg.DeviceID)
	assert.Equal(t, uint64(1234), cfg.RandomSeed)
	assert.False(t, cfg.WarmStart)
	assert.True(t, cfg.MQTT.Enabled())
	assert.Equal(t, byte(0), cfg.MQTT.QoS)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	t.Run("qos", func(t *testing.T) {
		t.Setenv("MQTT_QOS", "3")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("tick interval", func(t *testing.T) {
		t.Setenv("TICK_INTERVAL_MS", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("series points", func(t *testing.T) {
		t.Setenv("MAX_SERIES_POINTS", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestGetEnv(t *testing.T) {
	assert.Equal(t, "default-value", getEnv("HEALTHSYNC_TEST_KEY", "default-value"))

	t.Setenv("HEALTHSYNC_TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getEnv("HEALTHSYNC_TEST_KEY", "default-value"))
}

func TestGetEnvAsInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("HEALTHSYNC_TEST_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("HEALTHSYNC_TEST_INT", 7))
}

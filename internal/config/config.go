package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация приложения
type Config struct {
	ServerPort string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	StateTTL       time.Duration
	AlertRetention time.Duration

	DeviceID        string
	TickInterval    time.Duration
	RandomSeed      uint64
	MaxSeriesPoints int
	WarmStart       bool

	MQTT MQTTConfig

	LogLevel  string
	LogFormat string
}

// MQTTConfig настройки публикации в MQTT; пустой Broker отключает публикацию
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	TopicPrefix string
}

// Enabled true, если брокер задан
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// Load загружает конфигурацию из environment
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		StateTTL:        time.Duration(getEnvAsInt("STATE_TTL_MINUTES", 60)) * time.Minute,
		AlertRetention:  time.Duration(getEnvAsInt("ALERT_RETENTION_HOURS", 24)) * time.Hour,
		DeviceID:        getEnv("DEVICE_ID", "dev_001"),
		TickInterval:    time.Duration(getEnvAsInt("TICK_INTERVAL_MS", 3000)) * time.Millisecond,
		RandomSeed:      getEnvAsUint64("RANDOM_SEED", 0),
		MaxSeriesPoints: getEnvAsInt("MAX_SERIES_POINTS", 90),
		WarmStart:       getEnvAsBool("WARM_START", true),
		MQTT: MQTTConfig{
			Broker:      getEnv("MQTT_BROKER", ""),
			ClientID:    getEnv("MQTT_CLIENT_ID", "healthsync-monitor"),
			Username:    getEnv("MQTT_USERNAME", ""),
			Password:    getEnv("MQTT_PASSWORD", ""),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "healthsync"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	qos := getEnvAsInt("MQTT_QOS", 1)
	if qos < 0 || qos > 2 {
		return nil, fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", qos)
	}
	cfg.MQTT.QoS = byte(qos)

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("TICK_INTERVAL_MS must be positive, got %s", cfg.TickInterval)
	}
	if cfg.MaxSeriesPoints <= 0 {
		return nil, fmt.Errorf("MAX_SERIES_POINTS must be positive, got %d", cfg.MaxSeriesPoints)
	}

	return cfg, nil
}

// getEnv получает environment variable или возвращает default
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt получает environment variable как int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

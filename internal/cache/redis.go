package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"healthsync/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound ключ отсутствует или истек
var ErrNotFound = errors.New("cache: not found")

// RedisCache обертка для Redis клиента: последнее состояние и алерты
type RedisCache struct {
	client   *redis.Client
	stateTTL time.Duration
	alertTTL time.Duration
}

// NewRedisCache создает новый Redis кэш и проверяет подключение
func NewRedisCache(ctx context.Context, addr, password string, db int, stateTTL, alertTTL time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, stateTTL, alertTTL), nil
}

// NewRedisCacheWithClient оборачивает готовый клиент
func NewRedisCacheWithClient(client *redis.Client, stateTTL, alertTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   client,
		stateTTL: stateTTL,
		alertTTL: alertTTL,
	}
}

func latestSnapshotKey(deviceID string) string {
	return fmt.Sprintf("vitals:%s:latest", deviceID)
}

func latestInsightsKey(deviceID string) string {
	return fmt.Sprintf("insights:%s:latest", deviceID)
}

func alertKey(deviceID, alertID string) string {
	return fmt.Sprintf("alert:%s:%s", deviceID, alertID)
}

func alertListKey(deviceID string) string {
	return fmt.Sprintf("alert_list:%s", deviceID)
}

// TicksKey ключ счетчика опубликованных тиков
func TicksKey(deviceID string) string {
	return fmt.Sprintf("ticks:%s", deviceID)
}

// StoreState сохраняет последний снимок и инсайты одной транзакцией
func (r *RedisCache) StoreState(ctx context.Context, deviceID string, snapshot models.VitalsSnapshot, entries []models.InsightEntry) error {
	snapshotData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	insightsData, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, latestSnapshotKey(deviceID), snapshotData, r.stateTTL)
	pipe.Set(ctx, latestInsightsKey(deviceID), insightsData, r.stateTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}
	return nil
}

// GetLatestSnapshot возвращает последний опубликованный снимок устройства
func (r *RedisCache) GetLatestSnapshot(ctx context.Context, deviceID string) (models.VitalsSnapshot, error) {
	var snapshot models.VitalsSnapshot

	raw, err := r.client.Get(ctx, latestSnapshotKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot, ErrNotFound
	}
	if err != nil {
		return snapshot, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// GetLatestInsights возвращает последние инсайты устройства
func (r *RedisCache) GetLatestInsights(ctx context.Context, deviceID string) ([]models.InsightEntry, error) {
	raw, err := r.client.Get(ctx, latestInsightsKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	var entries []models.InsightEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insights: %w", err)
	}
	return entries, nil
}

// StoreAlert сохраняет алерт (с более длительным TTL) и индексирует его по времени
func (r *RedisCache) StoreAlert(ctx context.Context, alert models.Alert) error {
	jsonData, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	key := alertKey(alert.DeviceID, alert.ID)
	listKey := alertListKey(alert.DeviceID)
	score := float64(alert.Timestamp.UnixMilli())

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, jsonData, r.alertTTL)
	pipe.ZAdd(ctx, listKey, redis.Z{Score: score, Member: key})
	pipe.Expire(ctx, listKey, r.alertTTL)

	_, err = pipe.Exec(ctx)
	return err
}

// GetRecentAlerts получает ключи последних алертов устройства, новые первыми
func (r *RedisCache) GetRecentAlerts(ctx context.Context, deviceID string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	results, err := r.client.ZRevRange(ctx, alertListKey(deviceID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	return results, nil
}

// GetAlert читает алерт по ключу из списка
func (r *RedisCache) GetAlert(ctx context.Context, key string) (models.Alert, error) {
	var alert models.Alert

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return alert, ErrNotFound
	}
	if err != nil {
		return alert, fmt.Errorf("failed to get alert: %w", err)
	}

	if err := json.Unmarshal(raw, &alert); err != nil {
		return alert, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	return alert, nil
}

// ResolveAlert помечает алерт решенным; TTL ключа сохраняется
func (r *RedisCache) ResolveAlert(ctx context.Context, deviceID, alertID string, at time.Time) (models.Alert, error) {
	key := alertKey(deviceID, alertID)

	alert, err := r.GetAlert(ctx, key)
	if err != nil {
		return alert, err
	}
	if alert.Resolved {
		return alert, nil
	}

	alert.Resolved = true
	alert.ResolvedAt = &at

	jsonData, err := json.Marshal(alert)
	if err != nil {
		return alert, fmt.Errorf("failed to marshal alert: %w", err)
	}

	// XX: алерт мог истечь между чтением и записью
	err = r.client.SetArgs(ctx, key, jsonData, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		return alert, ErrNotFound
	}
	if err != nil {
		return alert, fmt.Errorf("failed to resolve alert: %w", err)
	}
	return alert, nil
}

// IncrementCounter увеличивает счетчик
func (r *RedisCache) IncrementCounter(ctx context.Context, key string) error {
	return r.client.Incr(ctx, key).Err()
}

// GetCounter получает значение счетчика
func (r *RedisCache) GetCounter(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// Close закрывает соединение с Redis
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Ping проверяет доступность Redis
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// GetStats возвращает статистику пула соединений
func (r *RedisCache) GetStats() map[string]interface{} {
	stats := r.client.PoolStats()

	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

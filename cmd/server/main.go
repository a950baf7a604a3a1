package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthsync/internal/broker"
	"healthsync/internal/cache"
	"healthsync/internal/config"
	"healthsync/internal/handlers"
	"healthsync/internal/logger"
	"healthsync/internal/metrics"
	"healthsync/internal/monitor"
	"healthsync/internal/simulator"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "healthsync"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Логгер еще не создан
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting vitals simulation service...",
		zap.String("device_id", cfg.DeviceID),
		zap.Duration("tick_interval", cfg.TickInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Redis
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	redisCache, err := cache.NewRedisCache(
		connectCtx,
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.StateTTL,
		cfg.AlertRetention,
	)
	connectCancel()
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()
	log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sim := simulator.NewSimulator(seed)

	mon := monitor.NewMonitor(sim, cfg.DeviceID, cfg.TickInterval, logger.ForComponent(log, "monitor", cfg.DeviceID))
	if cfg.WarmStart {
		warmStart(ctx, mon, redisCache, cfg.DeviceID, log)
	}

	// MQTT опционален
	var publisher *broker.Publisher
	var brokerStatus handlers.BrokerStatus
	if cfg.MQTT.Enabled() {
		publisher, err = broker.NewPublisher(cfg.MQTT, logger.ForComponent(log, "mqtt", cfg.DeviceID))
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		brokerStatus = publisher
		log.Info("Connected to MQTT broker", zap.String("broker", cfg.MQTT.Broker))
	}

	hub := handlers.NewHub(log.Named("stream"))

	// Результаты тиков обрабатываются одной goroutine по порядку
	done := make(chan struct{})
	go func() {
		defer close(done)
		processTickResults(mon, redisCache, publisher, hub, log)
	}()

	mon.Start(ctx)
	log.Info("Monitor started", zap.Uint64("seed", seed))

	handler := handlers.NewHandler(mon, sim, redisCache, brokerStatus, hub, cfg.MaxSeriesPoints, log.Named("http"))

	mux := http.NewServeMux()
	handler.Register(mux)

	// Prometheus metrics endpoint
	mux.Handle("/prometheus", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	go updateMetrics(ctx, mon)

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	mon.Stop()
	<-done
	hub.Close()
	if publisher != nil {
		publisher.Close()
	}

	log.Info("Server stopped gracefully")
}

// warmStart продолжает случайное блуждание с последнего сохраненного снимка
func warmStart(ctx context.Context, mon *monitor.Monitor, redisCache *cache.RedisCache, deviceID string, log *zap.Logger) {
	snapshot, err := redisCache.GetLatestSnapshot(ctx, deviceID)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		log.Info("No stored snapshot, starting from defaults")
		return
	case err != nil:
		log.Warn("Failed to load stored snapshot, starting from defaults", zap.Error(err))
		return
	}

	if err := snapshot.Validate(); err != nil {
		log.Warn("Stored snapshot rejected, starting from defaults", zap.Error(err))
		return
	}

	mon.Seed(snapshot)
	log.Info("Warm start from stored snapshot", zap.Int("heart_rate", snapshot.HeartRate))
}

// processTickResults сохраняет и рассылает результаты тиков
func processTickResults(
	mon *monitor.Monitor,
	redisCache *cache.RedisCache,
	publisher *broker.Publisher,
	hub *handlers.Hub,
	log *zap.Logger,
) {
	for result := range mon.GetResultsChan() {
		start := time.Now()

		// Обновляем Prometheus метрики
		metrics.RecordSnapshot(result.DeviceID, result.Snapshot)
		metrics.RecordInsights(result.DeviceID, result.Insights)
		metrics.RecordAlerts(result.Alerts)
		metrics.HealthScore.WithLabelValues(result.DeviceID).Set(result.Score.Overall)
		metrics.TicksProcessed.WithLabelValues(result.DeviceID).Inc()

		storeResult(redisCache, result, log)

		if publisher != nil {
			if err := publisher.PublishResult(result); err != nil {
				log.Warn("Failed to publish tick to MQTT", zap.Uint64("seq", result.Seq), zap.Error(err))
			}
		}

		hub.Broadcast(result)

		for _, alert := range result.Alerts {
			log.Warn("ALERT",
				zap.String("device_id", alert.DeviceID),
				zap.String("level", string(alert.Level)),
				zap.String("metric", alert.Metric),
				zap.Float64("value", alert.Value))
		}

		metrics.PublishLatency.Observe(time.Since(start).Seconds())
	}
}

func storeResult(redisCache *cache.RedisCache, result monitor.TickResult, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := redisCache.StoreState(ctx, result.DeviceID, result.Snapshot, result.Insights); err == nil {
		metrics.RedisOperations.WithLabelValues("store_state", "success").Inc()
	} else {
		metrics.RedisOperations.WithLabelValues("store_state", "error").Inc()
		log.Warn("Failed to store state", zap.Uint64("seq", result.Seq), zap.Error(err))
	}

	for _, alert := range result.Alerts {
		if err := redisCache.StoreAlert(ctx, alert); err == nil {
			metrics.RedisOperations.WithLabelValues("store_alert", "success").Inc()
		} else {
			metrics.RedisOperations.WithLabelValues("store_alert", "error").Inc()
			log.Warn("Failed to store alert", zap.String("alert_id", alert.ID), zap.Error(err))
		}
	}

	if err := redisCache.IncrementCounter(ctx, cache.TicksKey(result.DeviceID)); err != nil {
		metrics.RedisOperations.WithLabelValues("incr_ticks", "error").Inc()
	}
}

// updateMetrics периодически обновляет метрики
func updateMetrics(ctx context.Context, mon *monitor.Monitor) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := mon.GetStats()

			if queueSize, ok := stats["queue_size"].(int); ok {
				metrics.QueueSize.Set(float64(queueSize))
			}
			if dropped, ok := stats["dropped_results"].(uint64); ok {
				metrics.ResultsDropped.Set(float64(dropped))
			}
		}
	}
}

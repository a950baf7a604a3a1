package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration продолжительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// TicksProcessed обработанные тики
	TicksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitals_ticks_processed_total",
			Help: "Total number of simulation ticks delivered to sinks",
		},
		[]string{"device_id"},
	)

	// PublishLatency задержка публикации результата тика во все приемники
	PublishLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tick_publish_latency_seconds",
			Help:    "Tick result publishing latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// VitalValue текущее значение показателя
	VitalValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vital_value",
			Help: "Current value of a simulated vital",
		},
		[]string{"device_id", "metric"},
	)

	// InsightsEmitted выданные инсайты
	InsightsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_emitted_total",
			Help: "Total number of insights emitted",
		},
		[]string{"device_id", "severity"},
	)

	// AlertsRaised сработавшие пороговые алерты
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_raised_total",
			Help: "Total number of threshold alerts raised",
		},
		[]string{"metric", "level"},
	)

	// HealthScore текущая оценка здоровья
	HealthScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "health_score",
			Help: "Current weighted health score (0-100)",
		},
		[]string{"device_id"},
	)

	// ResultsDropped результаты, пропущенные из-за переполнения очереди
	ResultsDropped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tick_results_dropped",
			Help: "Tick results dropped because the consumer was behind",
		},
	)

	// QueueSize размер очереди обработки
	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "processing_queue_size",
			Help: "Current size of the processing queue",
		},
	)

	// StreamClients подключенные WebSocket клиенты
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_clients",
			Help: "Number of connected WebSocket stream clients",
		},
	)

	// RedisOperations операции с Redis
	RedisOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total number of Redis operations",
		},
		[]string{"operation", "status"},
	)

	// MQTTPublishes публикации в MQTT
	MQTTPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mqtt_publishes_total",
			Help: "Total number of MQTT publishes",
		},
		[]string{"kind", "status"},
	)
)

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"healthsync/internal/cache"
	"healthsync/internal/insights"
	"healthsync/internal/metrics"
	"healthsync/internal/models"
	"healthsync/internal/monitor"
	"healthsync/internal/simulator"

	"go.uber.org/zap"
)

const (
	defaultSeriesPoints = 7
	defaultAlertLimit   = 10
	maxAlertLimit       = 100
	maxBodyBytes        = 1 << 16
)

// BrokerStatus состояние подключения к брокеру сообщений
type BrokerStatus interface {
	IsConnected() bool
}

// Handler обработчик HTTP запросов
type Handler struct {
	monitor         *monitor.Monitor
	sim             *simulator.Simulator
	cache           *cache.RedisCache
	broker          BrokerStatus
	hub             *Hub
	maxSeriesPoints int
	logger          *zap.Logger
}

// NewHandler создает новый обработчик; broker может быть nil, если MQTT отключен
func NewHandler(
	mon *monitor.Monitor,
	sim *simulator.Simulator,
	cache *cache.RedisCache,
	broker BrokerStatus,
	hub *Hub,
	maxSeriesPoints int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		monitor:         mon,
		sim:             sim,
		cache:           cache,
		broker:          broker,
		hub:             hub,
		maxSeriesPoints: maxSeriesPoints,
		logger:          logger,
	}
}

// Register регистрирует маршруты API
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/vitals/latest", h.GetLatestVitals)
	mux.HandleFunc("/vitals/series", h.GetVitalsSeries)
	mux.HandleFunc("/insights", h.GetInsights)
	mux.HandleFunc("/insights/evaluate", h.EvaluateInsights)
	mux.HandleFunc("/score", h.GetScore)
	mux.HandleFunc("/alerts", h.GetAlerts)
	mux.HandleFunc("/alerts/{id}/resolve", h.ResolveAlert)
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/stats", h.GetStats)
	mux.HandleFunc("/ws", h.StreamVitals)
}

// observe записывает длительность запроса
func observe(r *http.Request, endpoint string, start time.Time) {
	metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, endpoint string, status int, v interface{}) {
	metrics.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", zap.String("endpoint", endpoint), zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, endpoint string, status int, message string) {
	metrics.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	http.Error(w, message, status)
}

func (h *Handler) allowMethod(w http.ResponseWriter, r *http.Request, endpoint, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.fail(w, r, endpoint, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// GetLatestVitals обрабатывает GET /vitals/latest
func (h *Handler) GetLatestVitals(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/vitals/latest"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	cur := h.monitor.Current()
	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"device_id": cur.DeviceID,
		"seq":       cur.Seq,
		"timestamp": cur.Timestamp,
		"vitals":    cur.Snapshot,
	})
}

// GetVitalsSeries обрабатывает GET /vitals/series?points=N
func (h *Handler) GetVitalsSeries(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/vitals/series"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	points := defaultSeriesPoints
	if raw := r.URL.Query().Get("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxSeriesPoints {
			h.fail(w, r, endpoint, http.StatusBadRequest,
				fmt.Sprintf("points must be an integer in [1, %d]", h.maxSeriesPoints))
			return
		}
		points = n
	}

	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"points": points,
		"series": h.sim.Series(points),
	})
}

// GetInsights обрабатывает GET /insights
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/insights"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	cur := h.monitor.Current()
	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"device_id": cur.DeviceID,
		"seq":       cur.Seq,
		"insights":  cur.Insights,
	})
}

// EvaluateInsights обрабатывает POST /insights/evaluate для внешнего снимка
func (h *Handler) EvaluateInsights(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/insights/evaluate"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodPost) {
		return
	}

	snapshot, err := models.DecodeSnapshot(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if errors.Is(err, models.ErrInvalidSnapshot) {
		h.fail(w, r, endpoint, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.fail(w, r, endpoint, http.StatusBadRequest, "Invalid JSON")
		return
	}

	score := insights.Score(snapshot)
	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"insights":        insights.Evaluate(snapshot),
		"alerts":          insights.CheckAlerts(snapshot),
		"score":           score,
		"recommendations": insights.Recommend(snapshot, score),
	})
}

// GetScore обрабатывает GET /score
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/score"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	cur := h.monitor.Current()
	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"device_id":   cur.DeviceID,
		"seq":         cur.Seq,
		"computed_at":     cur.Timestamp,
		"score":           cur.Score,
		"recommendations": insights.Recommend(cur.Snapshot, cur.Score),
	})
}

// GetAlerts обрабатывает GET /alerts?limit=N
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/alerts"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	limit := defaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAlertLimit {
			h.fail(w, r, endpoint, http.StatusBadRequest,
				fmt.Sprintf("limit must be an integer in [1, %d]", maxAlertLimit))
			return
		}
		limit = n
	}

	resolved := false
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, r, endpoint, http.StatusBadRequest, "resolved must be true or false")
			return
		}
		resolved = b
	}

	deviceID := h.monitor.DeviceID()
	keys, err := h.cache.GetRecentAlerts(r.Context(), deviceID, limit)
	if err != nil {
		metrics.RedisOperations.WithLabelValues("get_alerts", "error").Inc()
		h.logger.Error("Failed to get alerts", zap.String("device_id", deviceID), zap.Error(err))
		h.fail(w, r, endpoint, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	metrics.RedisOperations.WithLabelValues("get_alerts", "success").Inc()

	alerts := make([]models.Alert, 0, len(keys))
	for _, key := range keys {
		alert, err := h.cache.GetAlert(r.Context(), key)
		if errors.Is(err, cache.ErrNotFound) {
			continue
		}
		if err != nil {
			metrics.RedisOperations.WithLabelValues("get_alert", "error").Inc()
			h.fail(w, r, endpoint, http.StatusInternalServerError, "Failed to retrieve alerts")
			return
		}
		if alert.Resolved != resolved {
			continue
		}
		alerts = append(alerts, alert)
	}

	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"device_id":   deviceID,
		"resolved":    resolved,
		"alert_count": len(alerts),
		"alerts":      alerts,
	})
}

// ResolveAlert обрабатывает PUT /alerts/{id}/resolve
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/alerts/{id}/resolve"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodPut) {
		return
	}

	deviceID := h.monitor.DeviceID()
	alertID := r.PathValue("id")

	alert, err := h.cache.ResolveAlert(r.Context(), deviceID, alertID, time.Now())
	if errors.Is(err, cache.ErrNotFound) {
		h.fail(w, r, endpoint, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		metrics.RedisOperations.WithLabelValues("resolve_alert", "error").Inc()
		h.logger.Error("Failed to resolve alert", zap.String("alert_id", alertID), zap.Error(err))
		h.fail(w, r, endpoint, http.StatusInternalServerError, "Failed to resolve alert")
		return
	}
	metrics.RedisOperations.WithLabelValues("resolve_alert", "success").Inc()

	h.logger.Info("Alert resolved", zap.String("device_id", deviceID), zap.String("alert_id", alertID))
	h.writeJSON(w, r, endpoint, http.StatusOK, alert)
}

// HealthCheck обрабатывает GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/health"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	redisOK := h.cache.Ping(ctx) == nil

	status := "healthy"
	httpStatus := http.StatusOK
	if !redisOK {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{
		"status":    status,
		"redis":     redisOK,
		"timestamp": time.Now(),
	}
	if h.broker != nil {
		// MQTT на статус не влияет
		body["mqtt"] = h.broker.IsConnected()
	}

	h.writeJSON(w, r, endpoint, httpStatus, body)
}

// GetStats обрабатывает GET /stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/stats"
	defer observe(r, endpoint, time.Now())

	if !h.allowMethod(w, r, endpoint, http.MethodGet) {
		return
	}

	published, err := h.cache.GetCounter(r.Context(), cache.TicksKey(h.monitor.DeviceID()))
	if err != nil {
		h.logger.Warn("Failed to read tick counter", zap.Error(err))
	}

	h.writeJSON(w, r, endpoint, http.StatusOK, map[string]interface{}{
		"monitor":         h.monitor.GetStats(),
		"redis":           h.cache.GetStats(),
		"ticks_published": published,
		"stream_clients":  h.hub.Count(),
		"timestamp":       time.Now(),
	})
}

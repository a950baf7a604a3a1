package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"healthsync/internal/metrics"
	"healthsync/internal/monitor"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientSendSize = 16
)

// streamClient одно WebSocket подключение
type streamClient struct {
	send chan []byte
}

// Hub рассылает результаты тиков подключенным клиентам
type Hub struct {
	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	logger  *zap.Logger
}

// NewHub создает хаб
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*streamClient]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register() *streamClient {
	c := &streamClient{send: make(chan []byte, clientSendSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.StreamClients.Set(float64(n))
	return c
}

func (h *Hub) unregister(c *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.StreamClients.Set(float64(n))
}

// Broadcast отправляет результат всем клиентам; медленные клиенты пропускают сообщение
func (h *Hub) Broadcast(result monitor.TickResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("Failed to marshal tick result", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Debug("Stream client is slow, message skipped", zap.Uint64("seq", result.Seq))
		}
	}
}

// Count число подключенных клиентов
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех клиентов
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	metrics.StreamClients.Set(0)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamVitals обрабатывает GET /ws: текущее состояние сразу, затем каждый тик
func (h *Handler) StreamVitals(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(r.Method, "/ws", "400").Inc()
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	metrics.RequestsTotal.WithLabelValues(r.Method, "/ws", "101").Inc()
	defer conn.Close()

	client := h.hub.register()
	defer h.hub.unregister(client)

	initial, err := json.Marshal(h.monitor.Current())
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
		return
	}

	// Чтение нужно только для control frames и обнаружения закрытия
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case payload, ok := <-client.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

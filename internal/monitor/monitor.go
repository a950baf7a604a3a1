package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"healthsync/internal/insights"
	"healthsync/internal/models"
	"healthsync/internal/simulator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultInterval период тика
const DefaultInterval = 3 * time.Second

// TickResult снимок и все, что из него вычислено на том же тике.
// Публикуется целиком и после публикации не изменяется.
type TickResult struct {
	Seq       uint64                `json:"seq"`
	DeviceID  string                `json:"device_id"`
	Timestamp time.Time             `json:"timestamp"`
	Snapshot  models.VitalsSnapshot `json:"snapshot"`
	Insights  []models.InsightEntry `json:"insights"`
	Alerts    []models.Alert        `json:"alerts"`
	Score     models.HealthScore    `json:"score"`
}

// Monitor периодически генерирует снимок, оценивает его и публикует результат.
// Единственный писатель текущего состояния; читателей может быть сколько угодно.
type Monitor struct {
	sim      *simulator.Simulator
	deviceID string
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	writeMu sync.Mutex
	current atomic.Pointer[TickResult]

	resultsChan chan TickResult
	stopChan    chan struct{}
	stopOnce    sync.Once
	startOnce   sync.Once
	wg          sync.WaitGroup

	ticks   atomic.Uint64
	dropped atomic.Uint64
}

// NewMonitor создает монитор; начальное состояние строится из значений по умолчанию
func NewMonitor(sim *simulator.Simulator, deviceID string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{
		sim:         sim,
		deviceID:    deviceID,
		interval:    interval,
		logger:      logger,
		now:         time.Now,
		resultsChan: make(chan TickResult, 100),
		stopChan:    make(chan struct{}),
	}
	m.Seed(models.DefaultSnapshot())
	return m
}

// Seed заменяет базовый снимок, от которого пойдет следующий тик (теплый старт)
func (m *Monitor) Seed(snapshot models.VitalsSnapshot) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	var seq uint64
	if cur := m.current.Load(); cur != nil {
		seq = cur.Seq
	}
	m.current.Store(m.derive(seq, snapshot))
}

// Start запускает цикл тиков; цикл завершается по Stop или отмене ctx
func (m *Monitor) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.wg.Add(1)
		go m.run(ctx)
	})
}

// Stop останавливает цикл, дожидается текущего тика и закрывает канал результатов
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()

		m.writeMu.Lock()
		close(m.resultsChan)
		m.writeMu.Unlock()
	})
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Step()
		}
	}
}

// Step выполняет один цикл: симуляция, оценка, публикация.
// Возвращает нулевой результат, если монитор уже остановлен.
func (m *Monitor) Step() TickResult {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	select {
	case <-m.stopChan:
		return TickResult{}
	default:
	}

	prev := m.current.Load()
	snapshot := m.sim.Tick(&prev.Snapshot)
	result := m.derive(prev.Seq+1, snapshot)

	m.current.Store(result)
	m.ticks.Add(1)

	select {
	case m.resultsChan <- *result:
	default:
		// Потребитель не успевает: результат пропускается, порядок не нарушается
		m.dropped.Add(1)
		m.logger.Warn("Tick result dropped, consumer is behind",
			zap.Uint64("seq", result.Seq),
		)
	}

	m.logger.Debug("Tick completed",
		zap.Uint64("seq", result.Seq),
		zap.Int("heart_rate", snapshot.HeartRate),
		zap.Int("insights", len(result.Insights)),
		zap.Int("alerts", len(result.Alerts)),
	)

	return *result
}

// derive собирает TickResult по снимку
func (m *Monitor) derive(seq uint64, snapshot models.VitalsSnapshot) *TickResult {
	ts := m.now()

	alerts := insights.CheckAlerts(snapshot)
	for i := range alerts {
		alerts[i].ID = uuid.NewString()
		alerts[i].DeviceID = m.deviceID
		alerts[i].Timestamp = ts
	}

	return &TickResult{
		Seq:       seq,
		DeviceID:  m.deviceID,
		Timestamp: ts,
		Snapshot:  snapshot,
		Insights:  insights.Evaluate(snapshot),
		Alerts:    alerts,
		Score:     insights.Score(snapshot),
	}
}

// Current последний опубликованный результат
func (m *Monitor) Current() TickResult {
	return *m.current.Load()
}

// DeviceID идентификатор моделируемого устройства
func (m *Monitor) DeviceID() string {
	return m.deviceID
}

// GetResultsChan возвращает канал с результатами
func (m *Monitor) GetResultsChan() <-chan TickResult {
	return m.resultsChan
}

// GetStats возвращает статистику монитора
func (m *Monitor) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"device_id":        m.deviceID,
		"interval_ms":      m.interval.Milliseconds(),
		"ticks":            m.ticks.Load(),
		"dropped_results":  m.dropped.Load(),
		"queue_size":       len(m.resultsChan),
		"current_sequence": m.current.Load().Seq,
	}
}

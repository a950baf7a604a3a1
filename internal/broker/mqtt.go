package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"healthsync/internal/config"
	"healthsync/internal/metrics"
	"healthsync/internal/models"
	"healthsync/internal/monitor"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Виды сообщений; входят в топик <prefix>/<device_id>/<kind>
const (
	KindVitals   = "vitals"
	KindInsights = "insights"
	KindAlerts   = "alerts"
)

const publishTimeout = 5 * time.Second

// ErrPublishTimeout брокер не подтвердил публикацию вовремя
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// client подмножество mqtt.Client, нужное для публикации
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher публикует результаты тиков в MQTT
type Publisher struct {
	client client
	prefix string
	qos    byte
	logger *zap.Logger
}

// NewPublisher подключается к брокеру
func NewPublisher(cfg config.MQTTConfig, logger *zap.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newPublisher(c, cfg.TopicPrefix, cfg.QoS, logger), nil
}

func newPublisher(c client, prefix string, qos byte, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: c,
		prefix: prefix,
		qos:    qos,
		logger: logger,
	}
}

// Topic строит имя топика
func Topic(prefix, deviceID, kind string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, deviceID, kind)
}

// PublishResult публикует снимок и инсайты (retained), алерты при наличии
func (p *Publisher) PublishResult(result monitor.TickResult) error {
	vitals := struct {
		Seq       uint64                `json:"seq"`
		Timestamp time.Time             `json:"timestamp"`
		Snapshot  models.VitalsSnapshot `json:"snapshot"`
		Score     models.HealthScore    `json:"score"`
	}{result.Seq, result.Timestamp, result.Snapshot, result.Score}

	if err := p.publish(result.DeviceID, KindVitals, true, vitals); err != nil {
		return err
	}
	if err := p.publish(result.DeviceID, KindInsights, true, result.Insights); err != nil {
		return err
	}
	for _, alert := range result.Alerts {
		if err := p.publish(result.DeviceID, KindAlerts, false, alert); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(deviceID, kind string, retained bool, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	topic := Topic(p.prefix, deviceID, kind)
	token := p.client.Publish(topic, p.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		metrics.MQTTPublishes.WithLabelValues(kind, "timeout").Inc()
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	}
	if err := token.Error(); err != nil {
		metrics.MQTTPublishes.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	metrics.MQTTPublishes.WithLabelValues(kind, "success").Inc()
	p.logger.Debug("Published to MQTT", zap.String("topic", topic), zap.Int("bytes", len(payload)))
	return nil
}

// IsConnected проверяет соединение с брокером
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close отключается от брокера
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

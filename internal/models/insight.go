package models

import "time"

// Severity уровень инсайта
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// InsightEntry короткое суждение о снимке.
// Icon содержит символическое имя, отрисовка остается на стороне клиента.
type InsightEntry struct {
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// AlertLevel уровень алерта
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
)

// Alert выход показателя за пороговые значения
type Alert struct {
	ID        string     `json:"id,omitempty"`
	DeviceID  string     `json:"device_id,omitempty"`
	Level     AlertLevel `json:"level"`
	Metric    string     `json:"metric"`
	Value     float64    `json:"value"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`

	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ScoreBreakdown составляющие оценки здоровья (0-100)
type ScoreBreakdown struct {
	Cardiovascular float64 `json:"cardiovascular"`
	OxygenLevels   float64 `json:"oxygen_levels"`
	SleepHealth    float64 `json:"sleep_health"`
	RecoveryHRV    float64 `json:"recovery_hrv"`
}

// HealthScore взвешенная оценка здоровья по снимку
type HealthScore struct {
	Overall   float64        `json:"overall_score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	RiskLevel string         `json:"risk_level"`
}

package insights

import (
	"fmt"

	"healthsync/internal/models"
)

// Range допустимый диапазон показателя
type Range struct {
	Min float64
	Max float64
}

// Thresholds пороги для алертов
type Thresholds struct {
	HeartRate   Range
	SpO2        Range
	Temperature Range
	Systolic    Range
	Diastolic   Range
}

// DefaultThresholds пороги по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeartRate:   Range{Min: 40, Max: 120},
		SpO2:        Range{Min: 90, Max: 100},
		Temperature: Range{Min: 35.5, Max: 38.5},
		Systolic:    Range{Min: 80, Max: 160},
		Diastolic:   Range{Min: 50, Max: 110},
	}
}

// CheckAlerts проверяет снимок по порогам по умолчанию
func CheckAlerts(v models.VitalsSnapshot) []models.Alert {
	return DefaultThresholds().Check(v)
}

// Check возвращает алерты для показателей вне порогов.
// ID, устройство и время проставляет вызывающий.
func (t Thresholds) Check(v models.VitalsSnapshot) []models.Alert {
	alerts := make([]models.Alert, 0)

	hr := float64(v.HeartRate)
	if hr < t.HeartRate.Min {
		alerts = append(alerts, newAlert(models.AlertCritical, "heart_rate", hr,
			fmt.Sprintf("Heart rate critically low: %d bpm", v.HeartRate)))
	} else if hr > t.HeartRate.Max {
		alerts = append(alerts, newAlert(models.AlertCritical, "heart_rate", hr,
			fmt.Sprintf("Heart rate critically high: %d bpm", v.HeartRate)))
	}

	if v.SpO2 < t.SpO2.Min {
		alerts = append(alerts, newAlert(models.AlertCritical, "spo2", v.SpO2,
			fmt.Sprintf("SpO2 dangerously low: %.1f%%", v.SpO2)))
	}

	if v.Temperature > t.Temperature.Max {
		alerts = append(alerts, newAlert(models.AlertWarning, "temperature", v.Temperature,
			fmt.Sprintf("Elevated temperature: %.1f°C", v.Temperature)))
	}

	sys := float64(v.BloodPressure.Systolic)
	if sys > t.Systolic.Max || sys < t.Systolic.Min {
		alerts = append(alerts, newAlert(models.AlertWarning, "systolic_bp", sys,
			fmt.Sprintf("Systolic pressure out of range: %d mmHg", v.BloodPressure.Systolic)))
	}

	dia := float64(v.BloodPressure.Diastolic)
	if dia > t.Diastolic.Max || dia < t.Diastolic.Min {
		alerts = append(alerts, newAlert(models.AlertWarning, "diastolic_bp", dia,
			fmt.Sprintf("Diastolic pressure out of range: %d mmHg", v.BloodPressure.Diastolic)))
	}

	return alerts
}

func newAlert(level models.AlertLevel, metric string, value float64, message string) models.Alert {
	return models.Alert{
		Level:   level,
		Metric:  metric,
		Value:   value,
		Message: message,
	}
}

package metrics

import "healthsync/internal/models"

// RecordSnapshot выставляет gauge по каждому показателю снимка
func RecordSnapshot(deviceID string, v models.VitalsSnapshot) {
	values := map[string]float64{
		"heart_rate":   float64(v.HeartRate),
		"spo2":         v.SpO2,
		"temperature":  v.Temperature,
		"systolic_bp":  float64(v.BloodPressure.Systolic),
		"diastolic_bp": float64(v.BloodPressure.Diastolic),
		"steps":        float64(v.Steps),
		"sleep_hours":  v.SleepHours,
		"stress_level": float64(v.StressLevel),
		"hrv":          float64(v.HRV),
		"calories":     float64(v.Calories),
		"hydration":    float64(v.Hydration),
	}
	for metric, value := range values {
		VitalValue.WithLabelValues(deviceID, metric).Set(value)
	}
}

// RecordInsights считает инсайты по уровню
func RecordInsights(deviceID string, entries []models.InsightEntry) {
	for _, e := range entries {
		InsightsEmitted.WithLabelValues(deviceID, string(e.Severity)).Inc()
	}
}

// RecordAlerts считает алерты по показателю и уровню
func RecordAlerts(alerts []models.Alert) {
	for _, a := range alerts {
		AlertsRaised.WithLabelValues(a.Metric, string(a.Level)).Inc()
	}
}

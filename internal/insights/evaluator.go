package insights

import (
	"fmt"

	"healthsync/internal/models"
)

// MaxInsights максимальное число инсайтов на снимок
const MaxInsights = 4

// rule правило одной категории; false означает отсутствие записи
type rule func(v models.VitalsSnapshot) (models.InsightEntry, bool)

// rules порядок категорий определяет приоритет при усечении
var rules = []rule{
	heartRateRule,
	spO2Rule,
	temperatureRule,
	sleepRule,
	stressRule,
	stepsRule,
	hydrationRule,
}

// Evaluate строит упорядоченный список инсайтов по снимку.
// Список обрезается по позиции до MaxInsights, уровень серьезности на отбор не влияет.
func Evaluate(v models.VitalsSnapshot) []models.InsightEntry {
	entries := make([]models.InsightEntry, 0, MaxInsights)
	for _, r := range rules {
		if len(entries) == MaxInsights {
			break
		}
		if entry, ok := r(v); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func heartRateRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	hr := v.HeartRate
	switch {
	case hr > 90:
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "bolt",
			Title:    "Elevated Heart Rate",
			Message:  fmt.Sprintf("HR is %d bpm, above normal. Try relaxation exercises.", hr),
		}, true
	case hr < 55:
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "sleep",
			Title:    "Low Heart Rate",
			Message:  fmt.Sprintf("HR is %d bpm. Ensure hydration and nutrition.", hr),
		}, true
	default:
		return models.InsightEntry{
			Severity: models.SeverityGood,
			Icon:     "heart",
			Title:    "Heart Rate Normal",
			Message:  fmt.Sprintf("HR at %d bpm is within healthy range.", hr),
		}, true
	}
}

func spO2Rule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	if v.SpO2 < 95 {
		return models.InsightEntry{
			Severity: models.SeverityAlert,
			Icon:     "siren",
			Title:    "Low SpO2",
			Message:  fmt.Sprintf("Blood oxygen at %.1f%%. Consult a professional if persistent.", v.SpO2),
		}, true
	}
	return models.InsightEntry{
		Severity: models.SeverityGood,
		Icon:     "lungs",
		Title:    "Oxygen Healthy",
		Message:  fmt.Sprintf("SpO2 at %.1f%%, optimal range.", v.SpO2),
	}, true
}

func temperatureRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	if v.Temperature > 37.8 {
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "thermometer",
			Title:    "Elevated Temperature",
			Message:  fmt.Sprintf("Body temperature is %.1f°C. Rest and monitor for fever.", v.Temperature),
		}, true
	}
	return models.InsightEntry{}, false
}

func sleepRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	switch {
	case v.SleepHours < 6:
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "moon",
			Title:    "Sleep Deficit",
			Message:  fmt.Sprintf("Only %.1fh sleep. Aim for 7-9 hours.", v.SleepHours),
		}, true
	case v.SleepHours >= 7.5:
		return models.InsightEntry{
			Severity: models.SeverityGood,
			Icon:     "sparkles",
			Title:    "Excellent Sleep",
			Message:  fmt.Sprintf("%.1fh of quality sleep supports recovery.", v.SleepHours),
		}, true
	}
	return models.InsightEntry{}, false
}

func stressRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	switch {
	case v.StressLevel > 65:
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "stress",
			Title:    "High Stress",
			Message:  fmt.Sprintf("Stress score is %d. Take a short breathing break.", v.StressLevel),
		}, true
	case v.StressLevel < 35:
		return models.InsightEntry{
			Severity: models.SeverityGood,
			Icon:     "calm",
			Title:    "Low Stress",
			Message:  fmt.Sprintf("Stress score is %d. Keep up the balance.", v.StressLevel),
		}, true
	}
	return models.InsightEntry{}, false
}

func stepsRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	switch {
	case v.Steps < 5000:
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "walk",
			Title:    "Low Activity",
			Message:  fmt.Sprintf("Only %d steps today. A 20-min walk helps.", v.Steps),
		}, true
	case v.Steps >= 10000:
		return models.InsightEntry{
			Severity: models.SeverityGood,
			Icon:     "trophy",
			Title:    "Activity Goal!",
			Message:  fmt.Sprintf("%d steps, amazing work!", v.Steps),
		}, true
	}
	return models.InsightEntry{}, false
}

func hydrationRule(v models.VitalsSnapshot) (models.InsightEntry, bool) {
	if v.Hydration < 6 {
		return models.InsightEntry{
			Severity: models.SeverityWarning,
			Icon:     "droplet",
			Title:    "Drink More Water",
			Message:  fmt.Sprintf("Only %d glasses of water today. Aim for 8.", v.Hydration),
		}, true
	}
	return models.InsightEntry{}, false
}

package insights

import (
	"math"

	"healthsync/internal/models"
)

// Веса составляющих общей оценки
const (
	weightCardiovascular = 0.30
	weightOxygen         = 0.25
	weightSleep          = 0.25
	weightRecovery       = 0.20
)

// Score взвешенная оценка здоровья 0-100 по одному снимку
func Score(v models.VitalsSnapshot) models.HealthScore {
	breakdown := models.ScoreBreakdown{
		Cardiovascular: round1(math.Max(0, 100-math.Abs(float64(v.HeartRate)-72)*2)),
		OxygenLevels:   round1(clamp((v.SpO2 - 90) * 10)),
		SleepHealth:    round1(clamp(v.SleepHours * 12.5)),
		RecoveryHRV:    round1(clamp(float64(v.HRV) * 1.5)),
	}

	overall := round1(breakdown.Cardiovascular*weightCardiovascular +
		breakdown.OxygenLevels*weightOxygen +
		breakdown.SleepHealth*weightSleep +
		breakdown.RecoveryHRV*weightRecovery)

	return models.HealthScore{
		Overall:   overall,
		Breakdown: breakdown,
		RiskLevel: riskLevel(overall),
	}
}

func riskLevel(overall float64) string {
	switch {
	case overall >= 70:
		return "Low"
	case overall >= 50:
		return "Moderate"
	default:
		return "High"
	}
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

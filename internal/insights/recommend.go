package insights

import "healthsync/internal/models"

// MaxRecommendations предел числа рекомендаций
const MaxRecommendations = 5

const fallbackRecommendation = "You're doing great! Continue your healthy lifestyle habits for sustained well-being."

// Recommend советы по снимку и его оценке, в фиксированном порядке, не более MaxRecommendations
func Recommend(v models.VitalsSnapshot, score models.HealthScore) []string {
	recs := make([]string, 0, MaxRecommendations)

	switch {
	case v.HeartRate > 90:
		recs = append(recs, "Your heart rate is elevated. Try deep breathing exercises or progressive muscle relaxation.")
	case v.HeartRate < 55:
		recs = append(recs, "Your resting heart rate is low. Ensure adequate hydration and nutrition throughout the day.")
	}

	if v.SpO2 < 95 {
		recs = append(recs, "Your blood oxygen is below optimal. Practice diaphragmatic breathing and consider consulting a doctor.")
	}

	switch {
	case v.SleepHours < 6:
		recs = append(recs, "Sleep deprivation detected. Aim for 7-9 hours. Establish a consistent bedtime routine.")
	case v.SleepHours >= 8:
		recs = append(recs, "Excellent sleep! Maintain your current sleep schedule for optimal health.")
	}

	switch {
	case v.Steps < 5000:
		recs = append(recs, "Increase physical activity. A 20-minute brisk walk twice daily can improve cardiovascular health.")
	case v.Steps >= 10000:
		recs = append(recs, "Outstanding activity level! Keep maintaining this habit for long-term health benefits.")
	}

	if v.StressLevel > 65 {
		recs = append(recs, "High stress detected. Consider mindfulness meditation, yoga, or journaling to manage stress.")
	}

	if v.Hydration < 6 {
		recs = append(recs, "Increase water intake. Aim for 8 glasses per day. Set hourly reminders to stay hydrated.")
	}

	if score.RiskLevel == "High" {
		recs = append(recs, "Your health risk is elevated. Please consult a healthcare professional at your earliest convenience.")
	}

	if len(recs) == 0 {
		recs = append(recs, fallbackRecommendation)
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

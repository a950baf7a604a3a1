package insights

import (
	"math/rand/v2"
	"testing"

	"healthsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseline снимок, в котором срабатывают только пульс и SpO2
func baseline() models.VitalsSnapshot {
	return models.VitalsSnapshot{
		HeartRate:     72,
		SpO2:          98,
		Temperature:   36.6,
		BloodPressure: models.BloodPressure{Systolic: 120, Diastolic: 78},
		Steps:         7842,
		SleepHours:    7.2,
		StressLevel:   38,
		HRV:           62,
		Calories:      2150,
		Hydration:     6,
	}
}

func titles(entries []models.InsightEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestEvaluate_ElevatedHeartRate(t *testing.T) {
	v := baseline()
	v.HeartRate = 95

	entries := Evaluate(v)

	require.Len(t, entries, 2)
	assert.Equal(t, models.SeverityWarning, entries[0].Severity)
	assert.Equal(t, "Elevated Heart Rate", entries[0].Title)
	assert.Equal(t, models.SeverityGood, entries[1].Severity)
	assert.Equal(t, "Oxygen Healthy", entries[1].Title)
}

func TestEvaluate_LowSpO2IsAlert(t *testing.T) {
	v := baseline()
	v.SpO2 = 90

	entries := Evaluate(v)

	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, models.SeverityAlert, entries[1].Severity)
	assert.Equal(t, "Low SpO2", entries[1].Title)
	assert.Equal(t, "siren", entries[1].Icon)
}

func TestEvaluate_TruncatesByPosition(t *testing.T) {
	v := baseline()
	v.SleepHours = 5
	v.StressLevel = 70
	v.Steps = 3000
	v.Hydration = 3

	entries := Evaluate(v)

	require.Len(t, entries, MaxInsights)
	assert.Equal(t,
		[]string{"Heart Rate Normal", "Oxygen Healthy", "Sleep Deficit", "High Stress"},
		titles(entries))
	assert.Equal(t, models.SeverityGood, entries[0].Severity)
	assert.Equal(t, models.SeverityGood, entries[1].Severity)
	assert.Equal(t, models.SeverityWarning, entries[2].Severity)
	assert.Equal(t, models.SeverityWarning, entries[3].Severity)
}

func TestEvaluate_TemperatureTakesPriorityOverLaterCategories(t *testing.T) {
	v := baseline()
	v.Temperature = 38.2
	v.SleepHours = 5
	v.StressLevel = 70

	entries := Evaluate(v)

	assert.Equal(t,
		[]string{"Heart Rate Normal", "Oxygen Healthy", "Elevated Temperature", "Sleep Deficit"},
		titles(entries))
}

func TestEvaluate_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *models.VitalsSnapshot)
		want   []string
	}{
		{"heart rate 90 is normal", func(v *models.VitalsSnapshot) { v.HeartRate = 90 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"heart rate 55 is normal", func(v *models.VitalsSnapshot) { v.HeartRate = 55 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"heart rate 54 is low", func(v *models.VitalsSnapshot) { v.HeartRate = 54 },
			[]string{"Low Heart Rate", "Oxygen Healthy"}},
		{"spo2 95 is healthy", func(v *models.VitalsSnapshot) { v.SpO2 = 95 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"temperature 37.8 gives nothing", func(v *models.VitalsSnapshot) { v.Temperature = 37.8 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"sleep 6 gives nothing", func(v *models.VitalsSnapshot) { v.SleepHours = 6 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"sleep 7.5 is excellent", func(v *models.VitalsSnapshot) { v.SleepHours = 7.5 },
			[]string{"Heart Rate Normal", "Oxygen Healthy", "Excellent Sleep"}},
		{"stress 65 gives nothing", func(v *models.VitalsSnapshot) { v.StressLevel = 65 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"stress 34 is low", func(v *models.VitalsSnapshot) { v.StressLevel = 34 },
			[]string{"Heart Rate Normal", "Oxygen Healthy", "Low Stress"}},
		{"steps 5000 gives nothing", func(v *models.VitalsSnapshot) { v.Steps = 5000 },
			[]string{"Heart Rate Normal", "Oxygen Healthy"}},
		{"steps 10000 hits the goal", func(v *models.VitalsSnapshot) { v.Steps = 10000 },
			[]string{"Heart Rate Normal", "Oxygen Healthy", "Activity Goal!"}},
		{"hydration 5 needs water", func(v *models.VitalsSnapshot) { v.Hydration = 5 },
			[]string{"Heart Rate Normal", "Oxygen Healthy", "Drink More Water"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseline()
			tt.mutate(&v)
			assert.Equal(t, tt.want, titles(Evaluate(v)))
		})
	}
}

func TestEvaluate_Messages(t *testing.T) {
	v := baseline()
	v.HeartRate = 95
	v.Steps = 12000

	entries := Evaluate(v)

	assert.Equal(t, "HR is 95 bpm, above normal. Try relaxation exercises.", entries[0].Message)
	assert.Equal(t, "SpO2 at 98.0%, optimal range.", entries[1].Message)
	assert.Equal(t, "12000 steps, amazing work!", entries[2].Message)
}

func TestEvaluate_CapAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 2000; i++ {
		v := models.VitalsSnapshot{
			HeartRate:   30 + rng.IntN(120),
			SpO2:        85 + rng.Float64()*15,
			Temperature: 35 + rng.Float64()*5,
			Steps:       rng.IntN(15000),
			SleepHours:  3 + rng.Float64()*7,
			StressLevel: rng.IntN(100),
			Hydration:   rng.IntN(10),
		}
		frozen := v

		first := Evaluate(v)
		second := Evaluate(v)

		require.LessOrEqual(t, len(first), MaxInsights)
		require.GreaterOrEqual(t, len(first), 2, "heart rate and spo2 always produce an entry")
		require.Equal(t, first, second)
		require.Equal(t, frozen, v)
	}
}

package insights

import (
	"testing"

	"healthsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAlerts_NormalSnapshot(t *testing.T) {
	assert.Empty(t, CheckAlerts(models.DefaultSnapshot()))
}

func TestCheckAlerts_CriticalVitals(t *testing.T) {
	v := models.DefaultSnapshot()
	v.HeartRate = 130
	v.SpO2 = 88.5
	v.Temperature = 39.1

	alerts := CheckAlerts(v)

	require.Len(t, alerts, 3)
	assert.Equal(t, "heart_rate", alerts[0].Metric)
	assert.Equal(t, models.AlertCritical, alerts[0].Level)
	assert.Equal(t, "Heart rate critically high: 130 bpm", alerts[0].Message)
	assert.Equal(t, "spo2", alerts[1].Metric)
	assert.Equal(t, models.AlertCritical, alerts[1].Level)
	assert.Equal(t, 88.5, alerts[1].Value)
	assert.Equal(t, "temperature", alerts[2].Metric)
	assert.Equal(t, models.AlertWarning, alerts[2].Level)
}

func TestCheckAlerts_LowHeartRateAndBloodPressure(t *testing.T) {
	v := models.DefaultSnapshot()
	v.HeartRate = 35
	v.BloodPressure = models.BloodPressure{Systolic: 170, Diastolic: 45}

	alerts := CheckAlerts(v)

	require.Len(t, alerts, 3)
	assert.Equal(t, "Heart rate critically low: 35 bpm", alerts[0].Message)
	assert.Equal(t, "systolic_bp", alerts[1].Metric)
	assert.Equal(t, "diastolic_bp", alerts[2].Metric)
}

func TestThresholds_Custom(t *testing.T) {
	th := DefaultThresholds()
	th.HeartRate.Max = 100

	v := models.DefaultSnapshot()
	v.HeartRate = 105

	require.Len(t, th.Check(v), 1)
	assert.Empty(t, CheckAlerts(v))
}

package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSnapshot(t *testing.T) {
	v := DefaultSnapshot()

	assert.Equal(t, 72, v.HeartRate)
	assert.Equal(t, 98.2, v.SpO2)
	assert.Equal(t, 36.6, v.Temperature)
	assert.Equal(t, BloodPressure{Systolic: 120, Diastolic: 78}, v.BloodPressure)
	assert.Equal(t, 7842, v.Steps)
	assert.Equal(t, 7.2, v.SleepHours)
	assert.Equal(t, 38, v.StressLevel)
	assert.Equal(t, 62, v.HRV)
	assert.Equal(t, 2150, v.Calories)
	assert.Equal(t, 6, v.Hydration)
	assert.NoError(t, v.Validate())
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	v := DefaultSnapshot()
	v.SpO2 = math.NaN()

	err := v.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))
	assert.Contains(t, err.Error(), "spo2 is not finite")

	v = DefaultSnapshot()
	v.Temperature = math.Inf(1)
	assert.ErrorIs(t, v.Validate(), ErrInvalidSnapshot)
}

func TestValidate_RejectsOutOfBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *VitalsSnapshot)
	}{
		{"heart rate", func(v *VitalsSnapshot) { v.HeartRate = 400 }},
		{"spo2", func(v *VitalsSnapshot) { v.SpO2 = 101 }},
		{"missing blood pressure", func(v *VitalsSnapshot) { v.BloodPressure = BloodPressure{} }},
		{"negative steps", func(v *VitalsSnapshot) { v.Steps = -1 }},
		{"sleep", func(v *VitalsSnapshot) { v.SleepHours = 25 }},
		{"stress", func(v *VitalsSnapshot) { v.StressLevel = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DefaultSnapshot()
			tt.mutate(&v)
			assert.ErrorIs(t, v.Validate(), ErrInvalidSnapshot)
		})
	}
}

func TestValidate_AcceptsOutOfRangeVitals(t *testing.T) {
	// Значения вне нормы допустимы: именно их и ищет оценщик
	v := DefaultSnapshot()
	v.HeartRate = 140
	v.SpO2 = 88
	v.Temperature = 39.5

	assert.NoError(t, v.Validate())
}

func TestVitalsSnapshot_JSON(t *testing.T) {
	raw, err := json.Marshal(DefaultSnapshot())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, key := range []string{"heart_rate", "spo2", "temperature", "blood_pressure", "steps",
		"sleep_hours", "stress_level", "hrv", "calories", "hydration"} {
		assert.Contains(t, fields, key)
	}
}

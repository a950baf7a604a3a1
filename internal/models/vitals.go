package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSnapshot возвращается при валидации снимка из внешнего источника
var ErrInvalidSnapshot = errors.New("invalid vitals snapshot")

// BloodPressure артериальное давление, мм рт. ст.
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// VitalsSnapshot полный снимок показателей в один момент времени.
// После создания не изменяется: симулятор всегда возвращает новое значение.
type VitalsSnapshot struct {
	HeartRate     int           `json:"heart_rate"`
	SpO2          float64       `json:"spo2"`
	Temperature   float64       `json:"temperature"`
	BloodPressure BloodPressure `json:"blood_pressure"`
	Steps         int           `json:"steps"`
	SleepHours    float64       `json:"sleep_hours"`
	StressLevel   int           `json:"stress_level"`
	HRV           int           `json:"hrv"`
	Calories      int           `json:"calories"`
	Hydration     int           `json:"hydration"`
}

// DefaultSnapshot значения, используемые на первом тике
func DefaultSnapshot() VitalsSnapshot {
	return VitalsSnapshot{
		HeartRate:     72,
		SpO2:          98.2,
		Temperature:   36.6,
		BloodPressure: BloodPressure{Systolic: 120, Diastolic: 78},
		Steps:         7842,
		SleepHours:    7.2,
		StressLevel:   38,
		HRV:           62,
		Calories:      2150,
		Hydration:     6,
	}
}

// bounds границы правдоподобия для входных данных
type bounds struct {
	min, max float64
}

var validationBounds = map[string]bounds{
	"heart_rate":   {20, 300},
	"spo2":         {50, 100},
	"temperature":  {30, 45},
	"systolic":     {50, 300},
	"diastolic":    {30, 200},
	"steps":        {0, 200000},
	"sleep_hours":  {0, 24},
	"stress_level": {0, 100},
	"hrv":          {0, 500},
	"calories":     {0, 20000},
	"hydration":    {0, 50},
}

// Validate проверяет снимок, полученный от недоверенного вызывающего
func (v VitalsSnapshot) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"heart_rate", float64(v.HeartRate)},
		{"spo2", v.SpO2},
		{"temperature", v.Temperature},
		{"systolic", float64(v.BloodPressure.Systolic)},
		{"diastolic", float64(v.BloodPressure.Diastolic)},
		{"steps", float64(v.Steps)},
		{"sleep_hours", v.SleepHours},
		{"stress_level", float64(v.StressLevel)},
		{"hrv", float64(v.HRV)},
		{"calories", float64(v.Calories)},
		{"hydration", float64(v.Hydration)},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSnapshot, f.name)
		}
		b := validationBounds[f.name]
		if f.value < b.min || f.value > b.max {
			return fmt.Errorf("%w: %s=%g outside [%g, %g]", ErrInvalidSnapshot, f.name, f.value, b.min, b.max)
		}
	}

	return nil
}

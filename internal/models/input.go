package models

import (
	"encoding/json"
	"fmt"
	"io"
)

// bloodPressureInput давление во входящем запросе; nil означает отсутствующее поле
type bloodPressureInput struct {
	Systolic  *int `json:"systolic"`
	Diastolic *int `json:"diastolic"`
}

// SnapshotInput снимок от внешнего вызывающего, все поля обязательны
type SnapshotInput struct {
	HeartRate     *int                `json:"heart_rate"`
	SpO2          *float64            `json:"spo2"`
	Temperature   *float64            `json:"temperature"`
	BloodPressure *bloodPressureInput `json:"blood_pressure"`
	Steps         *int                `json:"steps"`
	SleepHours    *float64            `json:"sleep_hours"`
	StressLevel   *int                `json:"stress_level"`
	HRV           *int                `json:"hrv"`
	Calories      *int                `json:"calories"`
	Hydration     *int                `json:"hydration"`
}

// DecodeSnapshot читает JSON снимок: неизвестные поля запрещены, отсутствующие
// дают ErrInvalidSnapshot, значения проверяются Validate
func DecodeSnapshot(r io.Reader) (VitalsSnapshot, error) {
	var in SnapshotInput
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		return VitalsSnapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	snapshot, err := in.Snapshot()
	if err != nil {
		return VitalsSnapshot{}, err
	}
	if err := snapshot.Validate(); err != nil {
		return VitalsSnapshot{}, err
	}
	return snapshot, nil
}

// Snapshot собирает VitalsSnapshot; все отсутствующие поля перечисляются в ошибке
func (in SnapshotInput) Snapshot() (VitalsSnapshot, error) {
	var missing []string
	if in.HeartRate == nil {
		missing = append(missing, "heart_rate")
	}
	if in.SpO2 == nil {
		missing = append(missing, "spo2")
	}
	if in.Temperature == nil {
		missing = append(missing, "temperature")
	}
	if in.BloodPressure == nil {
		missing = append(missing, "blood_pressure")
	} else {
		if in.BloodPressure.Systolic == nil {
			missing = append(missing, "blood_pressure.systolic")
		}
		if in.BloodPressure.Diastolic == nil {
			missing = append(missing, "blood_pressure.diastolic")
		}
	}
	if in.Steps == nil {
		missing = append(missing, "steps")
	}
	if in.SleepHours == nil {
		missing = append(missing, "sleep_hours")
	}
	if in.StressLevel == nil {
		missing = append(missing, "stress_level")
	}
	if in.HRV == nil {
		missing = append(missing, "hrv")
	}
	if in.Calories == nil {
		missing = append(missing, "calories")
	}
	if in.Hydration == nil {
		missing = append(missing, "hydration")
	}
	if len(missing) > 0 {
		return VitalsSnapshot{}, fmt.Errorf("%w: missing fields %v", ErrInvalidSnapshot, missing)
	}

	return VitalsSnapshot{
		HeartRate:   *in.HeartRate,
		SpO2:        *in.SpO2,
		Temperature: *in.Temperature,
		BloodPressure: BloodPressure{
			Systolic:  *in.BloodPressure.Systolic,
			Diastolic: *in.BloodPressure.Diastolic,
		},
		Steps:       *in.Steps,
		SleepHours:  *in.SleepHours,
		StressLevel: *in.StressLevel,
		HRV:         *in.HRV,
		Calories:    *in.Calories,
		Hydration:   *in.Hydration,
	}, nil
}

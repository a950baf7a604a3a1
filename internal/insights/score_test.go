package insights

import (
	"testing"

	"healthsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScore_Defaults(t *testing.T) {
	s := Score(models.DefaultSnapshot())

	assert.InDelta(t, 100.0, s.Breakdown.Cardiovascular, 1e-9)
	assert.InDelta(t, 82.0, s.Breakdown.OxygenLevels, 1e-9)
	assert.InDelta(t, 90.0, s.Breakdown.SleepHealth, 1e-9)
	assert.InDelta(t, 93.0, s.Breakdown.RecoveryHRV, 1e-9)
	assert.InDelta(t, 91.6, s.Overall, 1e-9)
	assert.Equal(t, "Low", s.RiskLevel)
}

func TestScore_Clamping(t *testing.T) {
	v := models.DefaultSnapshot()
	v.HeartRate = 150
	v.SpO2 = 85
	v.SleepHours = 10
	v.HRV = 90

	s := Score(v)

	assert.Equal(t, 0.0, s.Breakdown.Cardiovascular)
	assert.Equal(t, 0.0, s.Breakdown.OxygenLevels)
	assert.Equal(t, 100.0, s.Breakdown.SleepHealth)
	assert.Equal(t, 100.0, s.Breakdown.RecoveryHRV)
	assert.InDelta(t, 45.0, s.Overall, 1e-9)
	assert.Equal(t, "High", s.RiskLevel)
}

func TestScore_RiskLevels(t *testing.T) {
	assert.Equal(t, "Low", riskLevel(70))
	assert.Equal(t, "Moderate", riskLevel(69.9))
	assert.Equal(t, "Moderate", riskLevel(50))
	assert.Equal(t, "High", riskLevel(49.9))
}

package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotBody(t *testing.T, drop ...string) string {
	t.Helper()
	raw, err := json.Marshal(DefaultSnapshot())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, name := range drop {
		if strings.HasPrefix(name, "blood_pressure.") {
			bp := fields["blood_pressure"].(map[string]interface{})
			delete(bp, strings.TrimPrefix(name, "blood_pressure."))
			continue
		}
		delete(fields, name)
	}

	out, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(out)
}

func TestDecodeSnapshot_Complete(t *testing.T) {
	v, err := DecodeSnapshot(strings.NewReader(snapshotBody(t)))
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshot(), v)
}

func TestDecodeSnapshot_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		drop []string
		want string
	}{
		{"steps", []string{"steps"}, "steps"},
		{"steps and hydration", []string{"steps", "hydration"}, "[steps hydration]"},
		{"blood pressure", []string{"blood_pressure"}, "blood_pressure"},
		{"diastolic", []string{"blood_pressure.diastolic"}, "blood_pressure.diastolic"},
		{"zero-valued calories omitted", []string{"calories"}, "calories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(snapshotBody(t, tt.drop...)))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeSnapshot_ExplicitZeroAccepted(t *testing.T) {
	body := strings.Replace(snapshotBody(t), `"steps":7842`, `"steps":0`, 1)

	v, err := DecodeSnapshot(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Steps)
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	_, err := DecodeSnapshot(strings.NewReader("{broken"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSnapshot)

	body := strings.TrimSuffix(snapshotBody(t), "}") + `,"mood":"ok"}`
	_, err = DecodeSnapshot(strings.NewReader(body))
	assert.Error(t, err)

	body = strings.Replace(snapshotBody(t), `"spo2":98.2`, `"spo2":120`, 1)
	_, err = DecodeSnapshot(strings.NewReader(body))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

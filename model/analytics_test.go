package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMarshal(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		expected string
	}{
		{
			name:     "unknown metric marshals as the string unknown",
			metric:   Metric{},
			expected: `"unknown"`,
		},
		{
			name:     "known metric marshals as its value",
			metric:   KnownMetric(123.4),
			expected: `123.4`,
		},
		{
			name:     "known zero is still a number",
			metric:   KnownMetric(0),
			expected: `0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(raw))
		})
	}
}

func TestPerformanceInfoCarriesUnknowns(t *testing.T) {
	raw, err := json.Marshal(PerformanceInfo{
		PageLoadTime: KnownMetric(812),
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Unavailable metrics are explicit, never omitted
	assert.Equal(t, "unknown", decoded["first_paint"])
	assert.Equal(t, "unknown", decoded["layout_shift"])
	assert.Equal(t, 812.0, decoded["page_load_time"])
}

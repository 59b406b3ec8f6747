package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelForPM25(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{0, "Very Good"},
		{9.9, "Very Good"},
		{10, "Good"},
		{20, "Medium"},
		{24.9, "Medium"},
		{25, "Poor"},
		{50, "Very Poor"},
		{74.9, "Very Poor"},
		{75, "Extremely Poor"},
		{200, "Extremely Poor"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, LabelForPM25(tc.value), "pm2.5 = %v", tc.value)
	}
}

func TestLabelMetricResolution(t *testing.T) {
	assert.Equal(t, "Good", Label("PM25", 12))
	assert.Equal(t, "Good", Label("pm2.5", 12))
	assert.Equal(t, "Good", Label("PM2_5", 12))
	assert.Equal(t, "Very Good", Label("ozone", 30))
	assert.Equal(t, "Poor", Label("NO2", 150))
	assert.Equal(t, "Unknown", Label("radon", 50))
}

func TestTemperatureBands(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{40, "Extremely Poor (Heat)"},
		{32, "Very Poor"},
		{27, "Poor"},
		{20, "Very Good"},
		{15, "Good"},
		{5, "Medium"},
		{-5, "Poor (Cold)"},
		{-20, "Very Poor (Freezing)"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Label("temperature", tc.value), "temperature = %v", tc.value)
	}
}

func TestHumidityBands(t *testing.T) {
	assert.Equal(t, "Very Poor (Damp)", Label("humidity", 90))
	assert.Equal(t, "Poor (Humid)", Label("humidity", 75))
	assert.Equal(t, "Very Good", Label("humidity", 50))
	assert.Equal(t, "Poor (Dry)", Label("humidity", 10))
}

func TestTranslateRangeBoundaries(t *testing.T) {
	// Range bands are half-open: [Min, Max)
	assert.Equal(t, "Very Good", TranslateRange(18, TemperatureBands))
	assert.Equal(t, "Very Good", TranslateRange(24.999, TemperatureBands))
	assert.Equal(t, "Poor", TranslateRange(25, TemperatureBands))
}

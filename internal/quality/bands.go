// Package quality translates raw metric values into the display bands used
// across the demo: air-quality index labels for pollutants and comfort
// labels for weather metrics.
package quality

import "strings"

// ThresholdBand labels values at or above Min. Band slices are sorted
// descending so the first match wins.
type ThresholdBand struct {
	Min   float64
	Label string
}

// RangeBand labels values in [Min, Max).
type RangeBand struct {
	Min   float64
	Max   float64
	Label string
}

// Pollutant threshold tables (ug/m3), sorted descending.
var (
	PM25Bands = []ThresholdBand{
		{75, "Extremely Poor"},
		{50, "Very Poor"},
		{25, "Poor"},
		{20, "Medium"},
		{10, "Good"},
		{0, "Very Good"},
	}
	PM10Bands = []ThresholdBand{
		{150, "Extremely Poor"},
		{100, "Very Poor"},
		{50, "Poor"},
		{40, "Medium"},
		{20, "Good"},
		{0, "Very Good"},
	}
	O3Bands = []ThresholdBand{
		{380, "Extremely Poor"},
		{240, "Very Poor"},
		{130, "Poor"},
		{100, "Medium"},
		{50, "Good"},
		{0, "Very Good"},
	}
	NO2Bands = []ThresholdBand{
		{340, "Extremely Poor"},
		{230, "Very Poor"},
		{120, "Poor"},
		{90, "Medium"},
		{40, "Good"},
		{0, "Very Good"},
	}
	SO2Bands = []ThresholdBand{
		{750, "Extremely Poor"},
		{500, "Very Poor"},
		{350, "Poor"},
		{200, "Medium"},
		{100, "Good"},
		{0, "Very Good"},
	}
)

// Comfort range tables for weather metrics.
var (
	TemperatureBands = []RangeBand{
		{35, 100, "Extremely Poor (Heat)"},
		{30, 35, "Very Poor"},
		{25, 30, "Poor"},
		{18, 25, "Very Good"},
		{10, 18, "Good"},
		{0, 10, "Medium"},
		{-10, 0, "Poor (Cold)"},
		{-100, -10, "Very Poor (Freezing)"},
	}
	HumidityBands = []RangeBand{
		{85, 100, "Very Poor (Damp)"},
		{70, 85, "Poor (Humid)"},
		{60, 70, "Medium"},
		{40, 60, "Very Good"},
		{30, 40, "Good"},
		{20, 30, "Medium (Dry)"},
		{0, 20, "Poor (Dry)"},
	}
)

var thresholdTables = map[string][]ThresholdBand{
	"PM25": PM25Bands,
	"PM10": PM10Bands,
	"O3":   O3Bands,
	"NO2":  NO2Bands,
	"SO2":  SO2Bands,
}

var rangeTables = map[string][]RangeBand{
	"TEMPERATURE": TemperatureBands,
	"HUMIDITY":    HumidityBands,
}

var aliases = map[string]string{
	"PM2.5":            "PM25",
	"PM2_5":            "PM25",
	"OZONE":            "O3",
	"NITROGEN_DIOXIDE": "NO2",
	"SULPHUR_DIOXIDE":  "SO2",
}

// TranslateThreshold returns the label of the first band whose Min the
// value reaches.
func TranslateThreshold(value float64, bands []ThresholdBand) string {
	for _, band := range bands {
		if value >= band.Min {
			return band.Label
		}
	}
	return "Unknown"
}

// TranslateRange returns the label of the band containing the value.
func TranslateRange(value float64, bands []RangeBand) string {
	for _, band := range bands {
		if value >= band.Min && value < band.Max {
			return band.Label
		}
	}
	return "Unknown"
}

// Label resolves a metric name (aliases accepted, case-insensitive) and
// translates the value against its table.
func Label(metric string, value float64) string {
	name := strings.ToUpper(metric)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	if bands, ok := thresholdTables[name]; ok {
		return TranslateThreshold(value, bands)
	}
	if bands, ok := rangeTables[name]; ok {
		return TranslateRange(value, bands)
	}
	return "Unknown"
}

// LabelForPM25 is the hot path used by markers and alerts.
func LabelForPM25(value float64) string {
	return TranslateThreshold(value, PM25Bands)
}

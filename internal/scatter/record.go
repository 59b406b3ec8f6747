package scatter

import "time"

// Status is the quality band assigned to a sensor reading.
type Status string

const (
	StatusGood     Status = "good"
	StatusModerate Status = "moderate"
	StatusPoor     Status = "poor"
)

// Absolute pm2.5 thresholds used when recomputing status from a value
// (live ticks), as opposed to the sampled band used at generation time.
const (
	goodPM25Ceiling     = 15
	moderatePM25Ceiling = 30
)

// StatusForPM25 maps an absolute pm2.5 value to its quality band.
func StatusForPM25(pm25 int) Status {
	switch {
	case pm25 <= goodPM25Ceiling:
		return StatusGood
	case pm25 <= moderatePM25Ceiling:
		return StatusModerate
	default:
		return StatusPoor
	}
}

// SensorRecord is one synthetic air-quality reading. Records are immutable
// once generated; live ticks build a replacement set rather than mutating.
type SensorRecord struct {
	ID          string    `json:"id"`
	RegionKey   string    `json:"region_key"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Status      Status    `json:"status"`
	PM25        int       `json:"pm25"`
	Temperature float64   `json:"temperature"`
	Humidity    int       `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
	Intensity   float64   `json:"intensity"`

	// Fallback marks records placed from the global fallback box after a
	// region exhausted its attempt budget; these are exempt from the
	// per-region land constraint.
	Fallback bool `json:"fallback,omitempty"`
}

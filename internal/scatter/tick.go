package scatter

import (
	"math"
	"math/rand/v2"
	"time"
)

// Per-tick drift magnitudes and clamp bounds for the live simulation.
// Ticks are intentionally unseeded; only initial generation needs to be
// reproducible.
const (
	pm25TickDelta     = 2.5
	tempTickDelta     = 0.5
	humidityTickDelta = 2.5

	pm25Floor, pm25Ceil         = 5, 95
	tempFloor, tempCeil         = -10.0, 45.0
	humidityFloor, humidityCeil = 10, 95
)

// Tick evolves a record set by one step of the live simulation: each
// metric moves by a small bounded random delta, values are clamped, status
// is recomputed from the new pm2.5, and timestamps are refreshed. The
// input slice is left untouched.
func Tick(records []SensorRecord) []SensorRecord {
	now := time.Now().UTC()

	out := make([]SensorRecord, len(records))
	for i, rec := range records {
		next := rec
		next.PM25 = clampInt(rec.PM25+jitterInt(pm25TickDelta), pm25Floor, pm25Ceil)
		next.Temperature = clamp(rec.Temperature+jitter(tempTickDelta), tempFloor, tempCeil)
		next.Humidity = clampInt(rec.Humidity+jitterInt(humidityTickDelta), humidityFloor, humidityCeil)
		next.Status = StatusForPM25(next.PM25)
		next.Timestamp = now
		out[i] = next
	}
	return out
}

// jitter returns a uniform delta in [-magnitude, magnitude].
func jitter(magnitude float64) float64 {
	return (rand.Float64()*2 - 1) * magnitude
}

func jitterInt(magnitude float64) int {
	return int(math.Round(jitter(magnitude)))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

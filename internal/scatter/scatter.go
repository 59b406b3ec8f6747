package scatter

import (
	"fmt"
	"time"
)

// LandIndex reports whether a coordinate falls on land. A nil index means
// placement is unconstrained.
type LandIndex interface {
	OnLand(lng, lat float64) bool
}

// Tuning constants carried over from the original demo. The band cutoffs
// and pm2.5 ranges are presentation values with no semantic derivation;
// keep them in sync with the quality thresholds in record.go.
const (
	goodBandCutoff     = 0.63
	moderateBandCutoff = 0.88

	goodPM25Min, goodPM25Max         = 8, 15
	moderatePM25Min, moderatePM25Max = 18, 28
	poorPM25Min, poorPM25Max         = 32, 48

	// Attempt budgets for rejection sampling. Exhausting a budget degrades
	// to fewer sensors, never to an error.
	regionAttemptFactor   = 900
	fallbackAttemptFactor = 9000

	// The global fallback box covers inhabitable latitudes only.
	fallbackMinLat = -60.0
	fallbackMaxLat = 78.0

	// FallbackRegionKey names records placed by the global shortfall fill.
	FallbackRegionKey = "global"
)

// Generate produces a deterministic sensor set for the given regions and
// seed. When land is non-nil, per-region placement rejects points that are
// not on land, re-sampling up to count*900 times per region. Any shortfall
// is then filled from an unconstrained global box. The caller can detect
// degradation by comparing len(result) with TargetCount(regions).
//
// Draw order per accepted sensor is fixed (placement, quality roll, pm2.5,
// temperature, humidity, intensity); reordering breaks reproducibility.
func Generate(regions []Region, seed uint32, land LandIndex) []SensorRecord {
	rng := NewPRNG(seed)
	now := time.Now().UTC()

	records := make([]SensorRecord, 0, TargetCount(regions))

	for _, region := range regions {
		minLat, maxLat := region.LatBounds()
		minLng, maxLng := region.LngBounds()

		budget := region.Count * regionAttemptFactor
		placed := 0
		for placed < region.Count && budget > 0 {
			budget--
			lat := rng.Range(minLat, maxLat)
			lng := rng.Range(minLng, maxLng)
			if land != nil && !land.OnLand(lng, lat) {
				continue
			}
			placed++
			records = append(records, newRecord(rng, region.Key, placed, lat, lng, false, now))
		}
	}

	// Shortfall fill. Exempt from the land constraint so inconsistent
	// boundary data can never starve the demo of markers.
	if shortfall := TargetCount(regions) - len(records); shortfall > 0 {
		budget := shortfall * fallbackAttemptFactor
		placed := 0
		for placed < shortfall && budget > 0 {
			budget--
			lat := clamp(rng.Range(fallbackMinLat, fallbackMaxLat), -85, 85)
			lng := clamp(rng.Range(-180, 180), -180, 180)
			placed++
			records = append(records, newRecord(rng, FallbackRegionKey, placed, lat, lng, true, now))
		}
	}

	return records
}

// newRecord consumes the quality roll and dependent metric draws from the
// shared stream. pm2.5 is sampled conditionally on the rolled band so the
// value always matches the status.
func newRecord(rng *PRNG, key string, seq int, lat, lng float64, fallback bool, ts time.Time) SensorRecord {
	roll := rng.Next()

	var status Status
	var pm25 int
	switch {
	case roll < goodBandCutoff:
		status = StatusGood
		pm25 = goodPM25Min + rng.IntN(goodPM25Max-goodPM25Min+1)
	case roll < moderateBandCutoff:
		status = StatusModerate
		pm25 = moderatePM25Min + rng.IntN(moderatePM25Max-moderatePM25Min+1)
	default:
		status = StatusPoor
		pm25 = poorPM25Min + rng.IntN(poorPM25Max-poorPM25Min+1)
	}

	temperature := rng.Range(8, 34)
	humidity := 30 + rng.IntN(50)
	intensity := rng.Range(0.5, 1.0)

	return SensorRecord{
		ID:          fmt.Sprintf("%s-%d", key, seq),
		RegionKey:   key,
		Lat:         lat,
		Lng:         lng,
		Status:      status,
		PM25:        pm25,
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   ts,
		Intensity:   intensity,
		Fallback:    fallback,
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

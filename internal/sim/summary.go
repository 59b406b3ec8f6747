package sim

import (
	"sort"

	"github.com/airiq/mockfeed/internal/scatter"
)

// RegionSummary is the per-region dashboard aggregate recomputed on every
// tick.
type RegionSummary struct {
	RegionKey     string  `json:"region_key"`
	Count         int     `json:"count"`
	MeanPM25      float64 `json:"mean_pm25"`
	MinPM25       int     `json:"min_pm25"`
	MaxPM25       int     `json:"max_pm25"`
	GoodCount     int     `json:"good_count"`
	ModerateCount int     `json:"moderate_count"`
	PoorCount     int     `json:"poor_count"`
}

// Summarize aggregates records by region, ordered by region key.
func Summarize(records []scatter.SensorRecord) []RegionSummary {
	byRegion := make(map[string]*RegionSummary)

	for _, rec := range records {
		summary, ok := byRegion[rec.RegionKey]
		if !ok {
			summary = &RegionSummary{
				RegionKey: rec.RegionKey,
				MinPM25:   rec.PM25,
				MaxPM25:   rec.PM25,
			}
			byRegion[rec.RegionKey] = summary
		}

		summary.Count++
		summary.MeanPM25 += float64(rec.PM25)
		if rec.PM25 < summary.MinPM25 {
			summary.MinPM25 = rec.PM25
		}
		if rec.PM25 > summary.MaxPM25 {
			summary.MaxPM25 = rec.PM25
		}

		switch rec.Status {
		case scatter.StatusGood:
			summary.GoodCount++
		case scatter.StatusModerate:
			summary.ModerateCount++
		case scatter.StatusPoor:
			summary.PoorCount++
		}
	}

	summaries := make([]RegionSummary, 0, len(byRegion))
	for _, summary := range byRegion {
		summary.MeanPM25 /= float64(summary.Count)
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].RegionKey < summaries[j].RegionKey
	})

	return summaries
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airiq/mockfeed/internal/scatter"
)

func TestSummarize(t *testing.T) {
	records := []scatter.SensorRecord{
		{ID: "eu-1", RegionKey: "europe", Status: scatter.StatusGood, PM25: 10},
		{ID: "eu-2", RegionKey: "europe", Status: scatter.StatusModerate, PM25: 20},
		{ID: "eu-3", RegionKey: "europe", Status: scatter.StatusPoor, PM25: 42},
		{ID: "af-1", RegionKey: "africa", Status: scatter.StatusGood, PM25: 8},
	}

	summaries := Summarize(records)
	require.Len(t, summaries, 2)

	// Sorted by region key
	africa := summaries[0]
	assert.Equal(t, "africa", africa.RegionKey)
	assert.Equal(t, 1, africa.Count)
	assert.Equal(t, 8.0, africa.MeanPM25)
	assert.Equal(t, 8, africa.MinPM25)
	assert.Equal(t, 8, africa.MaxPM25)
	assert.Equal(t, 1, africa.GoodCount)

	europe := summaries[1]
	assert.Equal(t, "europe", europe.RegionKey)
	assert.Equal(t, 3, europe.Count)
	assert.Equal(t, 24.0, europe.MeanPM25)
	assert.Equal(t, 10, europe.MinPM25)
	assert.Equal(t, 42, europe.MaxPM25)
	assert.Equal(t, 1, europe.GoodCount)
	assert.Equal(t, 1, europe.ModerateCount)
	assert.Equal(t, 1, europe.PoorCount)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestSummarizeCountsAddUp(t *testing.T) {
	records := scatter.Generate(scatter.DefaultRegions(), 20260226, nil)
	summaries := Summarize(records)

	total := 0
	for _, s := range summaries {
		total += s.Count
		assert.Equal(t, s.Count, s.GoodCount+s.ModerateCount+s.PoorCount)
		assert.GreaterOrEqual(t, s.MeanPM25, float64(s.MinPM25))
		assert.LessOrEqual(t, s.MeanPM25, float64(s.MaxPM25))
	}
	assert.Equal(t, len(records), total)
}

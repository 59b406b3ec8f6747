package scatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickDoesNotMutateInput(t *testing.T) {
	original := Generate(DefaultRegions(), 1, nil)
	before := zeroTimestamps(original)

	Tick(original)

	assert.Equal(t, before, zeroTimestamps(original))
}

func TestTickPreservesIdentity(t *testing.T) {
	original := Generate(DefaultRegions(), 1, nil)
	ticked := Tick(original)

	require.Len(t, ticked, len(original))
	for i := range ticked {
		assert.Equal(t, original[i].ID, ticked[i].ID)
		assert.Equal(t, original[i].RegionKey, ticked[i].RegionKey)
		assert.Equal(t, original[i].Lat, ticked[i].Lat)
		assert.Equal(t, original[i].Lng, ticked[i].Lng)
		assert.Equal(t, original[i].Intensity, ticked[i].Intensity)
	}
}

func TestTickBoundedDrift(t *testing.T) {
	original := Generate(DefaultRegions(), 1, nil)
	ticked := Tick(original)

	for i := range ticked {
		assert.LessOrEqual(t, absInt(ticked[i].PM25-original[i].PM25), 3,
			"pm2.5 delta exceeds +-2.5 rounded")
		assert.LessOrEqual(t, abs(ticked[i].Temperature-original[i].Temperature), 0.5)
		assert.LessOrEqual(t, absInt(ticked[i].Humidity-original[i].Humidity), 3)
	}
}

func TestTickClampsUnderRepeatedApplication(t *testing.T) {
	records := Generate(DefaultRegions(), 1, nil)

	for i := 0; i < 1000; i++ {
		records = Tick(records)
	}

	for _, rec := range records {
		require.GreaterOrEqual(t, rec.PM25, pm25Floor)
		require.LessOrEqual(t, rec.PM25, pm25Ceil)
		require.GreaterOrEqual(t, rec.Temperature, tempFloor)
		require.LessOrEqual(t, rec.Temperature, tempCeil)
		require.GreaterOrEqual(t, rec.Humidity, humidityFloor)
		require.LessOrEqual(t, rec.Humidity, humidityCeil)
	}
}

func TestTickRecomputesStatus(t *testing.T) {
	records := Generate(DefaultRegions(), 1, nil)

	for i := 0; i < 50; i++ {
		records = Tick(records)
		for _, rec := range records {
			require.Equal(t, StatusForPM25(rec.PM25), rec.Status)
		}
	}
}

func TestTickRefreshesTimestamp(t *testing.T) {
	records := []SensorRecord{{
		ID:        "x-1",
		RegionKey: "x",
		Status:    StatusGood,
		PM25:      10,
		Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	ticked := Tick(records)
	require.Len(t, ticked, 1)
	assert.True(t, ticked[0].Timestamp.After(records[0].Timestamp))
}

func TestTickEmpty(t *testing.T) {
	assert.Empty(t, Tick(nil))
	assert.Empty(t, Tick([]SensorRecord{}))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

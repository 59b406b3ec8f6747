package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/scatter"
	"github.com/airiq/mockfeed/internal/timer"
)

func newTestSimulator(t *testing.T, regions []scatter.Region) *Simulator {
	t.Helper()
	timers := timer.NewTimerManager()
	timers.Start()
	t.Cleanup(timers.Stop)

	return New(regions, nil, timers, nil, nil, zap.NewNop(), time.Second, 2*time.Second)
}

func TestRegenerate(t *testing.T) {
	regions := []scatter.Region{{Key: "europe", Lat: 49, Lng: 12, SpreadLat: 10, SpreadLng: 18, Count: 12}}
	s := newTestSimulator(t, regions)

	run := s.Regenerate(context.Background(), 20260226)

	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, uint32(20260226), run.Seed)
	assert.Equal(t, 12, run.Requested)
	assert.Equal(t, 12, run.Generated)
	assert.Zero(t, run.FallbackCount)
	assert.Len(t, s.Records(), 12)
	assert.Equal(t, run.RunID, s.Run().RunID)
}

func TestRegenerateNotifiesListeners(t *testing.T) {
	s := newTestSimulator(t, scatter.DefaultRegions())

	var got []scatter.SensorRecord
	s.AddListener(func(records []scatter.SensorRecord) {
		got = records
	})

	s.Regenerate(context.Background(), 7)
	assert.Len(t, got, scatter.TargetCount(scatter.DefaultRegions()))
}

func TestRegenerateReplacesWorld(t *testing.T) {
	s := newTestSimulator(t, scatter.DefaultRegions())

	first := s.Regenerate(context.Background(), 1)
	second := s.Regenerate(context.Background(), 2)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, uint32(2), s.Run().Seed)
}

func TestRecordLookup(t *testing.T) {
	regions := []scatter.Region{{Key: "oceania", Lat: -27, Lng: 140, SpreadLat: 10, SpreadLng: 16, Count: 3}}
	s := newTestSimulator(t, regions)
	s.Regenerate(context.Background(), 5)

	rec, found := s.Record("oceania-2")
	require.True(t, found)
	assert.Equal(t, "oceania", rec.RegionKey)

	_, found = s.Record("nowhere-9")
	assert.False(t, found)
}

func TestRecordsReturnsCopy(t *testing.T) {
	s := newTestSimulator(t, scatter.DefaultRegions())
	s.Regenerate(context.Background(), 5)

	records := s.Records()
	records[0].PM25 = -1

	fresh := s.Records()
	assert.NotEqual(t, -1, fresh[0].PM25)
}

func TestSummariesCoverAllRegions(t *testing.T) {
	s := newTestSimulator(t, scatter.DefaultRegions())
	s.Regenerate(context.Background(), 20260226)

	summaries := s.Summaries()
	assert.Len(t, summaries, len(scatter.DefaultRegions()))
}

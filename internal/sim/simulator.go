package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/protocol"
	"github.com/airiq/mockfeed/internal/queue"
	"github.com/airiq/mockfeed/internal/scatter"
	"github.com/airiq/mockfeed/internal/snapshot"
	"github.com/airiq/mockfeed/internal/timer"
)

const tickTaskID = "sim-tick"

// RunInfo describes one generation run.
type RunInfo struct {
	RunID         string    `json:"run_id"`
	Seed          uint32    `json:"seed"`
	Requested     int       `json:"requested"`
	Generated     int       `json:"generated"`
	FallbackCount int       `json:"fallback_count"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Listener receives the full record set after every generation or tick.
type Listener func(records []scatter.SensorRecord)

// Simulator owns the current mock sensor world: it generates the
// deterministic record set, evolves it on a jittered interval, and fans
// results out to Kafka, the snapshot store, and registered listeners.
// Generation happens only through Regenerate — never at package init.
type Simulator struct {
	regions []scatter.Region
	land    scatter.LandIndex

	producer *queue.Producer // optional
	store    *snapshot.Store // optional
	timers   *timer.TimerManager
	logger   *zap.Logger

	tickMin time.Duration
	tickMax time.Duration

	mu        sync.RWMutex
	records   []scatter.SensorRecord
	run       RunInfo
	summaries []RegionSummary
	listeners []Listener
	running   bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a simulator. producer and store may be nil for a purely
// in-process demo.
func New(regions []scatter.Region, land scatter.LandIndex, timers *timer.TimerManager,
	producer *queue.Producer, store *snapshot.Store, logger *zap.Logger,
	tickMin, tickMax time.Duration) *Simulator {

	ctx, cancel := context.WithCancel(context.Background())
	return &Simulator{
		regions:  regions,
		land:     land,
		producer: producer,
		store:    store,
		timers:   timers,
		logger:   logger,
		tickMin:  tickMin,
		tickMax:  tickMax,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddListener registers a callback invoked with the full record set after
// every generation and tick. Must be called before Start.
func (s *Simulator) AddListener(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Regenerate replaces the current world with a fresh deterministic
// generation for the given seed.
func (s *Simulator) Regenerate(ctx context.Context, seed uint32) RunInfo {
	records := scatter.Generate(s.regions, seed, s.land)

	fallbackCount := 0
	for _, rec := range records {
		if rec.Fallback {
			fallbackCount++
		}
	}

	run := RunInfo{
		RunID:         uuid.New().String(),
		Seed:          seed,
		Requested:     scatter.TargetCount(s.regions),
		Generated:     len(records),
		FallbackCount: fallbackCount,
		GeneratedAt:   time.Now().UTC(),
	}

	if run.Generated < run.Requested {
		s.logger.Warn("generation degraded: attempt budget exhausted",
			zap.Int("requested", run.Requested),
			zap.Int("generated", run.Generated))
	}
	s.logger.Info("generated sensor set",
		zap.String("run_id", run.RunID),
		zap.Uint32("seed", seed),
		zap.Int("sensors", run.Generated),
		zap.Int("fallback", fallbackCount))

	s.mu.Lock()
	s.records = records
	s.run = run
	s.summaries = Summarize(records)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.persist(ctx)
	for _, fn := range listeners {
		fn(records)
	}

	return run
}

// Start begins the jittered tick loop. Regenerate must have been called
// at least once.
func (s *Simulator) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.scheduleNextTick()
}

// Stop halts the tick loop and any in-flight publishes.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.timers.Cancel(tickTaskID)
	s.cancel()
}

// Records returns a copy of the current record set.
func (s *Simulator) Records() []scatter.SensorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scatter.SensorRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns the record with the given ID.
func (s *Simulator) Record(id string) (scatter.SensorRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return scatter.SensorRecord{}, false
}

// Run returns metadata for the current generation run.
func (s *Simulator) Run() RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run
}

// Summaries returns the per-region aggregates for the current record set.
func (s *Simulator) Summaries() []RegionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RegionSummary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

func (s *Simulator) scheduleNextTick() {
	interval := s.tickMin
	if s.tickMax > s.tickMin {
		interval += time.Duration(rand.Float64() * float64(s.tickMax-s.tickMin))
	}
	if err := s.timers.Schedule(tickTaskID, time.Now().Add(interval), s.tick); err != nil {
		s.logger.Warn("failed to schedule tick", zap.Error(err))
	}
}

func (s *Simulator) tick() {
	s.mu.Lock()
	if !s.running || len(s.records) == 0 {
		s.mu.Unlock()
		return
	}
	records := scatter.Tick(s.records)
	s.records = records
	s.summaries = Summarize(records)
	run := s.run
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.Debug("tick", zap.String("run_id", run.RunID), zap.Int("sensors", len(records)))

	s.publish(run, records)
	s.persist(s.ctx)
	for _, fn := range listeners {
		fn(records)
	}

	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()
	if running {
		s.scheduleNextTick()
	}
}

// publish emits one reading batch per region, keyed by region for
// partition affinity.
func (s *Simulator) publish(run RunInfo, records []scatter.SensorRecord) {
	if s.producer == nil {
		return
	}

	byRegion := make(map[string][]scatter.SensorRecord)
	for _, rec := range records {
		byRegion[rec.RegionKey] = append(byRegion[rec.RegionKey], rec)
	}

	now := time.Now().UTC()
	for regionKey, regionRecords := range byRegion {
		batch := &protocol.ReadingBatch{
			RunID:     run.RunID,
			RegionKey: regionKey,
			EmittedAt: now,
			Records:   regionRecords,
		}
		data, err := protocol.EncodeReadingBatch(batch)
		if err != nil {
			s.logger.Warn("failed to encode reading batch", zap.Error(err))
			continue
		}
		if err := s.producer.Publish(s.ctx, regionKey, data); err != nil {
			s.logger.Warn("failed to publish reading batch",
				zap.String("region", regionKey), zap.Error(err))
		}
	}
}

func (s *Simulator) persist(ctx context.Context) {
	if s.store == nil {
		return
	}

	s.mu.RLock()
	snap := &snapshot.Snapshot{
		RunID:         s.run.RunID,
		Seed:          s.run.Seed,
		Requested:     s.run.Requested,
		Generated:     s.run.Generated,
		FallbackCount: s.run.FallbackCount,
		GeneratedAt:   s.run.GeneratedAt,
		UpdatedAt:     time.Now().UTC(),
		Records:       append([]scatter.SensorRecord(nil), s.records...),
	}
	s.mu.RUnlock()

	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.Warn("failed to save snapshot", zap.Error(err))
	}
}

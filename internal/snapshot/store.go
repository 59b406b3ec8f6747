package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/airiq/mockfeed/internal/scatter"
)

// Snapshot is the latest generated record set plus run metadata. It lives
// in Redis so restarted consumers and the alert watcher share one view of
// the current mock world.
type Snapshot struct {
	RunID         string                 `json:"run_id"`
	Seed          uint32                 `json:"seed"`
	Requested     int                    `json:"requested"`
	Generated     int                    `json:"generated"`
	FallbackCount int                    `json:"fallback_count"`
	GeneratedAt   time.Time              `json:"generated_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Records       []scatter.SensorRecord `json:"records"`
}

const defaultKey = "airiq:snapshot:latest"

// Store persists the latest snapshot in Redis
type Store struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

// NewStore creates a snapshot store. A zero ttl keeps snapshots forever.
func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	return &Store{
		redis: redisClient,
		key:   defaultKey,
		ttl:   ttl,
	}
}

// Save writes the snapshot, replacing any previous one
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.redis.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in Redis: %w", err)
	}

	return nil
}

// Load returns the latest snapshot, or nil when none has been saved yet
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

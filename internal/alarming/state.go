package alarming

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BandState tracks a sensor currently in the poor band
type BandState struct {
	SensorID  string    `json:"sensor_id"`
	RegionKey string    `json:"region_key"`
	EnteredAt time.Time `json:"entered_at"`
	LastPM25  int       `json:"last_pm25"`
}

// StateManager manages per-sensor band states in Redis
type StateManager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStateManager creates a new state manager. States expire after ttl so
// stale sensors clean themselves up.
func NewStateManager(redisClient *redis.Client, ttl time.Duration) *StateManager {
	return &StateManager{redis: redisClient, ttl: ttl}
}

func stateKey(sensorID string) string {
	return fmt.Sprintf("band_state:%s", sensorID)
}

// GetState retrieves the band state for a sensor, or nil when the sensor
// is not currently in the poor band
func (sm *StateManager) GetState(ctx context.Context, sensorID string) (*BandState, error) {
	data, err := sm.redis.Get(ctx, stateKey(sensorID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state from Redis: %w", err)
	}

	var state BandState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &state, nil
}

// SetState saves the band state for a sensor
func (sm *StateManager) SetState(ctx context.Context, state *BandState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := sm.redis.Set(ctx, stateKey(state.SensorID), data, sm.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set state in Redis: %w", err)
	}

	return nil
}

// DeleteState removes the band state (sensor recovered)
func (sm *StateManager) DeleteState(ctx context.Context, sensorID string) error {
	return sm.redis.Del(ctx, stateKey(sensorID)).Err()
}

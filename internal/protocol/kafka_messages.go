package protocol

import (
	"encoding/json"
	"time"

	"github.com/airiq/mockfeed/internal/scatter"
)

// ReadingBatch is the Kafka payload published on every tick, one message
// per region keyed by region for partition affinity.
type ReadingBatch struct {
	RunID     string                 `json:"run_id"`
	RegionKey string                 `json:"region_key"`
	EmittedAt time.Time              `json:"emitted_at"`
	Records   []scatter.SensorRecord `json:"records"`
}

// AlertEvent is published when a sensor crosses into or out of the poor
// quality band.
type AlertEvent struct {
	Type      string    `json:"type"` // ENTERED_POOR, RECOVERED
	SensorID  string    `json:"sensor_id"`
	RegionKey string    `json:"region_key"`
	PM25      int       `json:"pm25"`
	Band      string    `json:"band"`
	At        time.Time `json:"at"`
}

const (
	AlertTypeEnteredPoor = "ENTERED_POOR"
	AlertTypeRecovered   = "RECOVERED"
)

// EncodeReadingBatch encodes a ReadingBatch to JSON
func EncodeReadingBatch(batch *ReadingBatch) ([]byte, error) {
	return json.Marshal(batch)
}

// DecodeReadingBatch decodes JSON to ReadingBatch
func DecodeReadingBatch(data []byte) (*ReadingBatch, error) {
	var batch ReadingBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// EncodeAlertEvent encodes an AlertEvent to JSON
func EncodeAlertEvent(alert *AlertEvent) ([]byte, error) {
	return json.Marshal(alert)
}

// DecodeAlertEvent decodes JSON to AlertEvent
func DecodeAlertEvent(data []byte) (*AlertEvent, error) {
	var alert AlertEvent
	if err := json.Unmarshal(data, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

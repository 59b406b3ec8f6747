package alarming

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/protocol"
	"github.com/airiq/mockfeed/internal/quality"
	"github.com/airiq/mockfeed/internal/queue"
	"github.com/airiq/mockfeed/internal/scatter"
)

// Transition is the outcome of evaluating one record against its prior
// band state.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionEnteredPoor
	TransitionRecovered
)

// Evaluate decides the transition for a record given whether it was
// already tracked as poor. Kept pure so the state machine is testable
// without Redis.
func Evaluate(wasPoor bool, status scatter.Status) Transition {
	isPoor := status == scatter.StatusPoor
	switch {
	case isPoor && !wasPoor:
		return TransitionEnteredPoor
	case !isPoor && wasPoor:
		return TransitionRecovered
	default:
		return TransitionNone
	}
}

// Watcher consumes reading batches and publishes alert events on band
// transitions
type Watcher struct {
	stateManager  *StateManager
	alertProducer *queue.Producer
	logger        *zap.Logger
}

// NewWatcher creates a new band-transition watcher
func NewWatcher(stateManager *StateManager, alertProducer *queue.Producer, logger *zap.Logger) *Watcher {
	return &Watcher{
		stateManager:  stateManager,
		alertProducer: alertProducer,
		logger:        logger,
	}
}

// EvaluateBatch evaluates every record in a reading batch and publishes
// the resulting alerts in a single write.
func (w *Watcher) EvaluateBatch(ctx context.Context, batch *protocol.ReadingBatch) error {
	var alerts []kafka.Message

	for i := range batch.Records {
		msg, err := w.evaluateRecord(ctx, &batch.Records[i])
		if err != nil {
			w.logger.Warn("failed to evaluate record",
				zap.String("sensor_id", batch.Records[i].ID),
				zap.Error(err))
			continue
		}
		if msg != nil {
			alerts = append(alerts, *msg)
		}
	}

	if len(alerts) == 0 {
		return nil
	}
	if err := w.alertProducer.PublishBatch(ctx, alerts); err != nil {
		return fmt.Errorf("failed to publish alerts: %w", err)
	}

	w.logger.Info("published alerts",
		zap.String("region", batch.RegionKey),
		zap.Int("alerts", len(alerts)))
	return nil
}

func (w *Watcher) evaluateRecord(ctx context.Context, rec *scatter.SensorRecord) (*kafka.Message, error) {
	state, err := w.stateManager.GetState(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	switch Evaluate(state != nil, rec.Status) {
	case TransitionEnteredPoor:
		return w.handleEnteredPoor(ctx, rec)
	case TransitionRecovered:
		return w.handleRecovered(ctx, rec)
	}
	return nil, nil
}

func (w *Watcher) handleEnteredPoor(ctx context.Context, rec *scatter.SensorRecord) (*kafka.Message, error) {
	w.logger.Info("sensor entered poor band",
		zap.String("sensor_id", rec.ID),
		zap.String("region", rec.RegionKey),
		zap.Int("pm25", rec.PM25))

	state := &BandState{
		SensorID:  rec.ID,
		RegionKey: rec.RegionKey,
		EnteredAt: rec.Timestamp,
		LastPM25:  rec.PM25,
	}
	if err := w.stateManager.SetState(ctx, state); err != nil {
		return nil, err
	}

	return alertMessage(rec, protocol.AlertTypeEnteredPoor)
}

func (w *Watcher) handleRecovered(ctx context.Context, rec *scatter.SensorRecord) (*kafka.Message, error) {
	w.logger.Info("sensor recovered",
		zap.String("sensor_id", rec.ID),
		zap.String("region", rec.RegionKey),
		zap.Int("pm25", rec.PM25))

	if err := w.stateManager.DeleteState(ctx, rec.ID); err != nil {
		return nil, err
	}

	return alertMessage(rec, protocol.AlertTypeRecovered)
}

func alertMessage(rec *scatter.SensorRecord, alertType string) (*kafka.Message, error) {
	alert := &protocol.AlertEvent{
		Type:      alertType,
		SensorID:  rec.ID,
		RegionKey: rec.RegionKey,
		PM25:      rec.PM25,
		Band:      quality.LabelForPM25(float64(rec.PM25)),
		At:        rec.Timestamp,
	}

	data, err := protocol.EncodeAlertEvent(alert)
	if err != nil {
		return nil, fmt.Errorf("failed to encode alert: %w", err)
	}

	return &kafka.Message{
		Key:   []byte(fmt.Sprintf("%s-%s", alert.RegionKey, alert.SensorID)),
		Value: data,
	}, nil
}

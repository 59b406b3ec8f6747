package server

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/connection"
	"github.com/airiq/mockfeed/internal/protocol"
	"github.com/airiq/mockfeed/internal/scatter"
	"github.com/airiq/mockfeed/internal/sim"
	"github.com/airiq/mockfeed/internal/timer"
	"github.com/airiq/mockfeed/pkg/config"
)

const writeTimeout = 10 * time.Second

// FeedServer pushes live sensor updates to subscribed demo clients over a
// JSON-lines TCP protocol. Clients subscribe once, optionally to a single
// region, then receive a full snapshot followed by per-tick updates.
type FeedServer struct {
	config       *config.FeedConfig
	subManager   *connection.Manager
	timerManager *timer.TimerManager
	simulator    *sim.Simulator
	logger       *zap.Logger
	listener     net.Listener
	wg           sync.WaitGroup
	stopCh       chan struct{}

	mu        sync.Mutex
	lastRunID string
}

// NewFeedServer creates a new feed server
func NewFeedServer(cfg *config.FeedConfig, subManager *connection.Manager,
	timerManager *timer.TimerManager, simulator *sim.Simulator, logger *zap.Logger) *FeedServer {
	return &FeedServer{
		config:       cfg,
		subManager:   subManager,
		timerManager: timerManager,
		simulator:    simulator,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start starts the feed server
func (s *FeedServer) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start feed server: %w", err)
	}

	s.listener = listener
	s.logger.Info("feed server listening", zap.String("addr", addr))

	s.wg.Add(1)
	go s.acceptConnections()

	return nil
}

// Addr returns the address the server is listening on, or nil before
// Start succeeds. Port 0 in the config binds an ephemeral port.
func (s *FeedServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the feed server gracefully
func (s *FeedServer) Stop() {
	close(s.stopCh)

	if s.listener != nil {
		s.listener.Close()
	}

	for _, sub := range s.subManager.GetAll() {
		sub.Conn.Close()
	}

	s.wg.Wait()
	s.logger.Info("feed server stopped")
}

func (s *FeedServer) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.logger.Warn("failed to accept connection", zap.Error(err))
				continue
			}
		}

		if s.subManager.Count() >= s.config.MaxSubscribers {
			s.logger.Warn("maximum subscribers reached, rejecting connection")
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *FeedServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	subscriberID := uuid.New().String()
	s.logger.Debug("new connection",
		zap.String("subscriber_id", subscriberID),
		zap.String("remote", conn.RemoteAddr().String()))

	// The client must subscribe promptly or be dropped
	conn.SetReadDeadline(time.Now().Add(s.config.SubscribeTimeout))

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		s.logger.Debug("failed to read subscribe message", zap.Error(err))
		return
	}

	msg, err := protocol.ParseMessage([]byte(line))
	if err != nil {
		s.logger.Debug("failed to parse subscribe message", zap.Error(err))
		s.sendError(conn)
		return
	}

	subMsg, ok := msg.(*protocol.SubscribeMessage)
	if !ok {
		s.logger.Debug("expected subscribe message", zap.String("got", fmt.Sprintf("%T", msg)))
		s.sendError(conn)
		return
	}

	if err := s.subManager.Register(subscriberID, subMsg.Client, subMsg.RegionKey, conn); err != nil {
		s.logger.Warn("failed to register subscriber", zap.Error(err))
		s.sendError(conn)
		return
	}
	defer s.subManager.Unregister(subscriberID)
	defer s.timerManager.Cancel(inactivityTimerID(subscriberID))

	s.logger.Info("subscriber registered",
		zap.String("subscriber_id", subscriberID),
		zap.String("client", subMsg.Client),
		zap.String("region", subMsg.RegionKey))

	ack := protocol.NewAckMessage(protocol.AckStatusSubscribed)
	if err := s.sendMessage(conn, ack); err != nil {
		s.logger.Debug("failed to send ack", zap.Error(err))
		return
	}

	if err := s.sendSnapshot(conn, subMsg.RegionKey); err != nil {
		s.logger.Debug("failed to send snapshot", zap.Error(err))
		return
	}

	s.scheduleInactivityTimer(subscriberID)

	// Clear read deadline for normal operation
	conn.SetReadDeadline(time.Time{})

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		line, err := reader.ReadString('\n')
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			s.logger.Debug("connection closed",
				zap.String("subscriber_id", subscriberID), zap.Error(err))
			return
		}

		msg, err := protocol.ParseMessage([]byte(line))
		if err != nil {
			s.logger.Debug("failed to parse message", zap.Error(err))
			continue
		}

		if _, ok := msg.(*protocol.KeepaliveMessage); ok {
			if err := s.sendMessage(conn, protocol.NewAckMessage(protocol.AckStatusAlive)); err != nil {
				return
			}
		}

		s.subManager.UpdateActivity(subscriberID)
		s.scheduleInactivityTimer(subscriberID)
	}
}

// PushUpdate sends the record set produced by a tick to every subscriber,
// filtered to their region where one was requested. When the run has
// changed since the last push (a regeneration), subscribers get a fresh
// snapshot instead of a delta-style update. Intended to be registered as
// a simulator listener.
func (s *FeedServer) PushUpdate(records []scatter.SensorRecord) {
	run := s.simulator.Run()

	s.mu.Lock()
	regenerated := run.RunID != s.lastRunID
	s.lastRunID = run.RunID
	s.mu.Unlock()

	now := time.Now().UTC()
	for _, sub := range s.subManager.GetAll() {
		var msg interface{}
		if regenerated {
			msg = &protocol.SnapshotMessage{
				Type:    protocol.MsgTypeSnapshot,
				RunID:   run.RunID,
				Seed:    run.Seed,
				Records: filterByRegion(records, sub.RegionKey),
			}
		} else {
			msg = &protocol.UpdateMessage{
				Type:     protocol.MsgTypeUpdate,
				TickedAt: now,
				Records:  filterByRegion(records, sub.RegionKey),
			}
		}
		if err := s.sendMessage(sub.Conn, msg); err != nil {
			s.logger.Debug("failed to push to subscriber, dropping",
				zap.String("subscriber_id", sub.SubscriberID), zap.Error(err))
			sub.Conn.Close()
		}
	}
}

func (s *FeedServer) sendSnapshot(conn net.Conn, regionKey string) error {
	run := s.simulator.Run()
	snapshot := &protocol.SnapshotMessage{
		Type:    protocol.MsgTypeSnapshot,
		RunID:   run.RunID,
		Seed:    run.Seed,
		Records: filterByRegion(s.simulator.Records(), regionKey),
	}
	return s.sendMessage(conn, snapshot)
}

func (s *FeedServer) sendMessage(conn net.Conn, msg interface{}) error {
	data, err := protocol.EncodeMessage(msg)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err = conn.Write(append(data, '\n'))
	return err
}

func (s *FeedServer) sendError(conn net.Conn) {
	s.sendMessage(conn, protocol.NewAckMessage(protocol.AckStatusError))
}

func (s *FeedServer) scheduleInactivityTimer(subscriberID string) {
	expiryAt := time.Now().Add(s.config.InactivityTimeout)

	callback := func() {
		s.logger.Info("inactivity timeout", zap.String("subscriber_id", subscriberID))

		sub, exists := s.subManager.Get(subscriberID)
		if !exists {
			return
		}

		// Unregister happens in the connection handler's deferred cleanup
		sub.Conn.Close()
	}

	s.timerManager.Schedule(inactivityTimerID(subscriberID), expiryAt, callback)
}

func inactivityTimerID(subscriberID string) string {
	return fmt.Sprintf("inactivity-%s", subscriberID)
}

func filterByRegion(records []scatter.SensorRecord, regionKey string) []scatter.SensorRecord {
	if regionKey == "" {
		return records
	}
	filtered := make([]scatter.SensorRecord, 0, len(records))
	for _, rec := range records {
		if rec.RegionKey == regionKey {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

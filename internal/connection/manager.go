package connection

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Subscriber holds information about a connected feed client
type Subscriber struct {
	SubscriberID  string
	ClientName    string
	RegionKey     string // empty means all regions
	ConnectedAt   time.Time
	LastHeardFrom time.Time
	Conn          net.Conn
	mu            sync.RWMutex
}

// UpdateLastHeardFrom updates the last activity timestamp
func (s *Subscriber) UpdateLastHeardFrom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastHeardFrom = time.Now()
}

// GetLastHeardFrom returns the last activity timestamp
func (s *Subscriber) GetLastHeardFrom() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastHeardFrom
}

// Manager manages all active feed subscribers
type Manager struct {
	subscribers map[string]*Subscriber // key: subscriber_id
	byRegion    map[string][]string    // key: region key, value: []subscriber_id
	mu          sync.RWMutex
	maxSubs     int
}

// NewManager creates a new subscriber manager
func NewManager(maxSubscribers int) *Manager {
	return &Manager{
		subscribers: make(map[string]*Subscriber),
		byRegion:    make(map[string][]string),
		maxSubs:     maxSubscribers,
	}
}

// Register adds a new subscriber
func (m *Manager) Register(subscriberID, clientName, regionKey string, conn net.Conn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.subscribers) >= m.maxSubs {
		return ErrMaxSubscribersReached
	}

	if _, exists := m.subscribers[subscriberID]; exists {
		return fmt.Errorf("subscriber ID %s already registered", subscriberID)
	}

	now := time.Now()
	sub := &Subscriber{
		SubscriberID:  subscriberID,
		ClientName:    clientName,
		RegionKey:     regionKey,
		ConnectedAt:   now,
		LastHeardFrom: now,
		Conn:          conn,
	}

	m.subscribers[subscriberID] = sub
	m.byRegion[regionKey] = append(m.byRegion[regionKey], subscriberID)

	return nil
}

// Unregister removes a subscriber
func (m *Manager) Unregister(subscriberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, exists := m.subscribers[subscriberID]
	if !exists {
		return fmt.Errorf("subscriber ID %s not found", subscriberID)
	}

	region := sub.RegionKey
	if subIDs, ok := m.byRegion[region]; ok {
		for i, id := range subIDs {
			if id == subscriberID {
				m.byRegion[region] = append(subIDs[:i], subIDs[i+1:]...)
				break
			}
		}
		if len(m.byRegion[region]) == 0 {
			delete(m.byRegion, region)
		}
	}

	delete(m.subscribers, subscriberID)

	return nil
}

// Get retrieves subscriber information by ID
func (m *Manager) Get(subscriberID string) (*Subscriber, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, exists := m.subscribers[subscriberID]
	return sub, exists
}

// GetAll returns every active subscriber
func (m *Manager) GetAll() []*Subscriber {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := make([]*Subscriber, 0, len(m.subscribers))
	for _, sub := range m.subscribers {
		subs = append(subs, sub)
	}
	return subs
}

// GetByRegion retrieves all subscriber IDs filtered to a region
func (m *Manager) GetByRegion(regionKey string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subIDs := m.byRegion[regionKey]
	result := make([]string, len(subIDs))
	copy(result, subIDs)
	return result
}

// UpdateActivity updates the last heard from timestamp for a subscriber
func (m *Manager) UpdateActivity(subscriberID string) error {
	m.mu.RLock()
	sub, exists := m.subscribers[subscriberID]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("subscriber ID %s not found", subscriberID)
	}

	sub.UpdateLastHeardFrom()
	return nil
}

// GetInactiveSubscribers returns subscriber IDs that haven't been heard
// from in the given duration
func (m *Manager) GetInactiveSubscribers(timeout time.Duration) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var inactive []string

	for subID, sub := range m.subscribers {
		lastHeard := sub.GetLastHeardFrom()
		if now.Sub(lastHeard) > timeout {
			inactive = append(inactive, subID)
		}
	}

	return inactive
}

// Count returns the total number of active subscribers
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// Stats returns statistics about the subscriber manager
func (m *Manager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return ManagerStats{
		TotalSubscribers: len(m.subscribers),
		UniqueRegions:    len(m.byRegion),
		MaxSubscribers:   m.maxSubs,
	}
}

// ManagerStats contains statistics about the subscriber manager
type ManagerStats struct {
	TotalSubscribers int
	UniqueRegions    int
	MaxSubscribers   int
}

var (
	ErrMaxSubscribersReached = &ConnectionError{"maximum subscribers reached"}
)

// ConnectionError represents a connection error
type ConnectionError struct {
	msg string
}

func (e *ConnectionError) Error() string {
	return e.msg
}

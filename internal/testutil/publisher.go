package testutil

import (
	"sync"

	ws "github.com/vasantham/chit-backend/internal/websocket"
)

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []ws.Event
}

// Publish records the event
func (m *MockEventPublisher) Publish(event ws.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns a snapshot of the recorded events
func (m *MockEventPublisher) Published() []ws.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ws.Event, len(m.Events))
	copy(out, m.Events)
	return out
}

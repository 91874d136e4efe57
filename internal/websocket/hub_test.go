package websocket

import (
	"sync"
	"testing"
	"time"
)

// fakeClient records sent messages for assertions
type fakeClient struct {
	id     string
	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (f *fakeClient) ID() string { return f.id }

func (f *fakeClient) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClientClosed
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{id: "c1"}

	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHubBroadcast_ReachesAllClients(t *testing.T) {
	hub := NewHub()
	c1 := &fakeClient{id: "c1"}
	c2 := &fakeClient{id: "c2"}
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(PaymentRecorded(map[string]string{"fundNumber": "2024_03_1234"}))

	waitFor(t, func() bool { return c1.sentCount() == 1 && c2.sentCount() == 1 })
}

func TestHubBroadcast_NoClients(t *testing.T) {
	hub := NewHub()
	// Should not panic
	hub.Broadcast(EnrollmentCreated(nil))
}

func TestHubCloseAll(t *testing.T) {
	hub := NewHub()
	c1 := &fakeClient{id: "c1"}
	hub.Register(c1)

	hub.CloseAll()

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after CloseAll, got %d", hub.ClientCount())
	}
	if !c1.closed {
		t.Error("expected client to be closed")
	}
}

func TestEventType_Combined(t *testing.T) {
	event := PaymentRecorded(nil)
	if event.Type != "payment.recorded" {
		t.Errorf("expected type payment.recorded, got %s", event.Type)
	}
	if event.Entity != EntityTypePayment {
		t.Errorf("expected entity payment, got %s", event.Entity)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := &fakeClient{id: "client-1"}
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(OrderUpdated(map[string]interface{}{"id": float64(42)}))

	waitFor(t, func() bool { return client.sentCount() == 1 })
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(PaymentRecorded(map[string]interface{}{"id": float64(1)}))
	})
}

func TestNoOpPublisher_Implements_EventPublisher(t *testing.T) {
	var _ EventPublisher = (*NoOpPublisher)(nil)
}

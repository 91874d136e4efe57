package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeRecorded  EventType = "recorded"
	EventTypeBatchPaid EventType = "batch_paid"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeCustomer   EntityType = "customer"
	EntityTypeEnrollment EntityType = "enrollment"
	EntityTypePayment    EntityType = "payment"
	EntityTypeOrder      EntityType = "order"
)

// Event represents a WebSocket event message sent to dashboard clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "payment.recorded"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "payment"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// CustomerCreated creates a customer.created event
func CustomerCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCustomer, payload)
}

// EnrollmentCreated creates an enrollment.created event
func EnrollmentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEnrollment, payload)
}

// PaymentRecorded creates a payment.recorded event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypePayment, payload)
}

// PaymentBatchPaid creates a payment.batch_paid event
func PaymentBatchPaid(payload interface{}) Event {
	return NewEvent(EventTypeBatchPaid, EntityTypePayment, payload)
}

// OrderUpdated creates an order.updated event
func OrderUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeOrder, payload)
}

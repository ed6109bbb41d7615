package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a ticket lifecycle event on the Kafka topic
type EventType string

const (
	EventTypeTicketIssued     EventType = "TICKET_ISSUED"
	EventTypeTicketVerified   EventType = "TICKET_VERIFIED"
	EventTypeBookingCompleted EventType = "BOOKING_COMPLETED"
)

// TicketEvent is the message published for downstream consumers (attendance
// dashboards, owner notifications)
type TicketEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	TicketID   string    `json:"ticket_id"`
	ActivityID uint      `json:"activity_id"`
	Actor      string    `json:"actor"`
	Status     string    `json:"status"`
	Persons    int       `json:"persons,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTicketEvent stamps an event with a fresh id and the current time
func NewTicketEvent(eventType EventType, ticketID string, activityID uint, actor string) *TicketEvent {
	return &TicketEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TicketID:   ticketID,
		ActivityID: activityID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}

// PartitionKey keeps all events of one ticket on the same partition
func (e *TicketEvent) PartitionKey() string {
	return e.TicketID
}

func (e *TicketEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

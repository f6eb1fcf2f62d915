package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventNamePasswordChanged is the published name of the PasswordChanged event.
const EventNamePasswordChanged = "PasswordChanged"

// PasswordChanged is an immutable fact recorded when the aggregate rotates its
// credentials. It stays buffered on the aggregate until explicitly drained;
// the aggregate itself never publishes.
type PasswordChanged struct {
	EventID     string
	EventName   string
	AggregateID string
	Email       string
	OccurredOn  time.Time
}

// NewPasswordChanged stamps a new event with identity and occurrence time.
func NewPasswordChanged(aggregateID, email string) PasswordChanged {
	return PasswordChanged{
		EventID:     uuid.NewString(),
		EventName:   EventNamePasswordChanged,
		AggregateID: aggregateID,
		Email:       email,
		OccurredOn:  time.Now().UTC(),
	}
}

// Payload is the wire form handed to the event publisher.
func (e PasswordChanged) Payload() map[string]any {
	return map[string]any{
		"eventId":     e.EventID,
		"eventName":   e.EventName,
		"aggregateId": e.AggregateID,
		"occurredOn":  e.OccurredOn.Format(time.RFC3339Nano),
		"email":       e.Email,
	}
}

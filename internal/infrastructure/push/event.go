package push

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one realtime message pushed to connected clients. A nil
// UserID means the event goes to every connected client; otherwise
// only that user's connections receive it.
type Event struct {
	Type      string          `json:"type"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// NewEvent builds a broadcast event with the payload marshalled to JSON
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// NewUserEvent builds an event addressed to a single user
func NewUserEvent(userID uuid.UUID, eventType string, payload any) (Event, error) {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		return Event{}, err
	}
	evt.UserID = &userID
	return evt, nil
}

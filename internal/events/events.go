package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "social-service"
	EventVersion = "1.0"
)

type EventType string

const (
	EventConnectionRequested EventType = "connection.requested"
	EventConnectionApproved  EventType = "connection.approved"
	EventReactionChanged     EventType = "reaction.changed"
	EventCommentCreated      EventType = "comment.created"
	EventProfileCreated      EventType = "profile.created"
	EventProfileUpdated      EventType = "profile.updated"
)

// Event is the envelope published for every domain change
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewEvent(eventType EventType, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

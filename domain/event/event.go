// Package event defines the broadcast events emitted by the coordinator
// and consumed by connection sinks.
package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is anything the registry can fan out to connected sinks.
type DomainEvent interface {
	Name() string
}

// MessagePosted carries a newly stored message, and doubles as the
// replay event for join-time history delivery.
type MessagePosted struct {
	ID        uuid.UUID
	Username  string
	Text      string
	CreatedAt time.Time
	Edited    bool
}

func (MessagePosted) Name() string { return "chat message" }

// MessageEdited announces an in-place text update.
type MessageEdited struct {
	ID   uuid.UUID
	Text string
}

func (MessageEdited) Name() string { return "message edited" }

// MessageDeleted announces a hard removal.
type MessageDeleted struct {
	ID uuid.UUID
}

func (MessageDeleted) Name() string { return "message deleted" }

// ChatCleared announces that the whole log was wiped.
type ChatCleared struct{}

func (ChatCleared) Name() string { return "chat cleared" }

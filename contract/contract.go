//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"time"

	"github.com/google/uuid"
)

// EventSink is one connected client's receiving end. Implementations
// must not block the caller; delivery is best-effort.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks active connections and fans events out to them.
type IRegistry interface {
	Subscribe(sessionID string, sink EventSink)
	Unsubscribe(sessionID string)
	Broadcast(ctx context.Context, e event.DomainEvent)
	SendTo(ctx context.Context, sessionID string, e event.DomainEvent) error
}

// IHistoryRepository owns the canonical bounded message log.
// Every mutation is durable before it returns; no automatic retries.
type IHistoryRepository interface {
	Append(message domain.Message) error
	ReadAll() ([]domain.Message, error)
	Update(id uuid.UUID, newText string, editedAt time.Time) (domain.Message, error)
	Remove(id uuid.UUID) error
	ClearAll() error
}

// IRateLimiter gates message posting per connection.
type IRateLimiter interface {
	Allow(sessionID string, now time.Time) bool
	Forget(sessionID string)
}

// IChat is the transport-facing surface of the coordinator.
// All methods are silent on rejection: validation failures, rate-limit
// rejections and not-found mutations produce no client-visible error.
type IChat interface {
	Join(ctx context.Context, sessionID string, sink EventSink)
	Leave(sessionID string)
	Post(ctx context.Context, sessionID, username, text string)
	Edit(ctx context.Context, sessionID string, id uuid.UUID, newText string)
	Delete(ctx context.Context, sessionID string, id uuid.UUID)
	Clear(ctx context.Context, sessionID string)
}

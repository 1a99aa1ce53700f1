// Package runtime coordinates connections, rate limiting, and the
// history log. It orchestrates the system without containing domain
// rules.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Registry tracks every live connection's sink. It is safe for
// concurrent use; delivery through a sink is best-effort and never
// blocks the registry lock.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[string]contract.EventSink
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:      log,
		sessions: make(map[string]contract.EventSink),
	}
}

// Subscribe registers a connection's sink under its session id.
// A connection subscribing concurrently with a broadcast may or may not
// receive that broadcast; join-time history replay does not rely on it.
func (r *Registry) Subscribe(sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = sink
}

// Unsubscribe removes a connection. Idempotent: unsubscribing a session
// that is already gone is a no-op.
func (r *Registry) Unsubscribe(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Broadcast fans an event out to every registered sink, including the
// originator's. Sink failures are logged and skipped, never propagated:
// one slow or dead connection must not break delivery to the others.
func (r *Registry) Broadcast(ctx context.Context, e event.DomainEvent) {
	for sessionID, sink := range r.snapshot() {
		if err := sink.Consume(ctx, e); err != nil {
			r.log.Warn(fmt.Sprintf("Dropping %q event for session %s", e.Name(), sessionID),
				"error", err)
		}
	}
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SendTo delivers an event to exactly one connection, used for the
// initial history replay.
func (r *Registry) SendTo(ctx context.Context, sessionID string, e event.DomainEvent) error {
	r.mu.RLock()
	sink, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no sink registered for session %s", sessionID)
	}
	return sink.Consume(ctx, e)
}

// snapshot copies the session map so Consume runs outside the lock.
func (r *Registry) snapshot() map[string]contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make(map[string]contract.EventSink, len(r.sessions))
	for sessionID, sink := range r.sessions {
		sinks[sessionID] = sink
	}
	return sinks
}

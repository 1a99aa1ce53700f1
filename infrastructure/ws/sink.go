// Package ws adapts the coordinator to WebSocket connections.
package ws

import (
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
)

// Sink buffers broadcast events for one connection until its write
// pump drains them.
type Sink struct {
	Events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the registry during fan-out. It never blocks:
// when the connection's buffer is full the event is dropped and the
// backpressure reported to the caller.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSinkBusy
	}
}

// Package sink provides EventSink implementations.
package sink

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"sync"
)

// Timeline is an in-memory projection of the broadcast stream: it
// applies posted, edited, deleted and cleared events to a local message
// list. Used as a cheap observer in tests and diagnostics.
type Timeline struct {
	mu       sync.Mutex
	Messages []domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch evt := e.(type) {
	case event.MessagePosted:
		t.Messages = append(t.Messages, fromPosted(evt))
	case event.MessageEdited:
		for i := range t.Messages {
			if t.Messages[i].ID == evt.ID {
				t.Messages[i].Text = evt.Text
			}
		}
	case event.MessageDeleted:
		kept := t.Messages[:0]
		for _, m := range t.Messages {
			if m.ID != evt.ID {
				kept = append(kept, m)
			}
		}
		t.Messages = kept
	case event.ChatCleared:
		t.Messages = nil
	}
	return nil
}

// Events returns a copy of the projected messages.
func (t *Timeline) Events() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Message(nil), t.Messages...)
}

func fromPosted(evt event.MessagePosted) domain.Message {
	return domain.Message{
		ID:        evt.ID,
		Username:  evt.Username,
		Text:      evt.Text,
		CreatedAt: evt.CreatedAt,
	}
}

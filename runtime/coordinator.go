package runtime

import (
	chaterrors "chat-relay/errors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Coordinator binds the history log, the registry and the rate limiter.
// It validates incoming connection events, mutates the log, and
// broadcasts the outcome.
//
// The mutex serializes mutate+broadcast pairs, so the visible event
// order matches the log mutation order even with many connection
// goroutines. Delivery order across connections is still best-effort.
//
// Every rejection path is silent: validation failures, rate-limit
// rejections, and edits or deletes of a vanished message produce no
// client-visible error event. Silent degradation is the contract here,
// which also means a client cannot learn why a post was dropped.
type Coordinator struct {
	mu       sync.Mutex
	log      *slog.Logger
	history  contract.IHistoryRepository
	registry contract.IRegistry
	limiter  contract.IRateLimiter

	// Clock is swapped in tests to control timestamps and rate-limit
	// decisions.
	Clock func() time.Time
}

func NewCoordinator(log *slog.Logger, history contract.IHistoryRepository,
	registry contract.IRegistry, limiter contract.IRateLimiter) *Coordinator {
	return &Coordinator{
		log:      log,
		history:  history,
		registry: registry,
		limiter:  limiter,
		Clock:    time.Now,
	}
}

// Join registers the connection, then replays the bounded history to
// that connection only, oldest first, with edited flags pre-populated.
// A store read failure degrades to an empty history: the join itself
// always succeeds.
func (c *Coordinator) Join(ctx context.Context, sessionID string, sink contract.EventSink) {
	c.registry.Subscribe(sessionID, sink)
	c.log.Info(fmt.Sprintf("Session %s joined", sessionID))

	messages, err := c.history.ReadAll()
	if err != nil {
		c.log.Error("Failed to load history, joining with empty replay",
			"session_id", sessionID, "error", err)
		return
	}
	for _, e := range lo.Map(messages, func(m domain.Message, _ int) event.MessagePosted {
		return toPostedEvent(m)
	}) {
		if err := c.registry.SendTo(ctx, sessionID, e); err != nil {
			c.log.Warn("History replay delivery failed",
				"session_id", sessionID, "error", err)
		}
	}
}

// Leave unregisters the connection and drops its rate-limit state.
// No broadcast: departures are not announced.
func (c *Coordinator) Leave(sessionID string) {
	c.registry.Unsubscribe(sessionID)
	c.limiter.Forget(sessionID)
	c.log.Info(fmt.Sprintf("Session %s left", sessionID))
}

// Post validates, rate-limits, persists, then broadcasts. The broadcast
// happens only after a successful append so the visible log and the
// durable log never diverge.
func (c *Coordinator) Post(ctx context.Context, sessionID, username, text string) {
	username = domain.SanitizeUsername(username)
	text = domain.SanitizeText(text)
	if username == "" || text == "" {
		return
	}

	now := c.Clock()
	if !c.limiter.Allow(sessionID, now) {
		c.log.Debug(fmt.Sprintf("Rate limit rejected post from session %s", sessionID))
		return
	}

	message := domain.Message{
		ID:        uuid.New(),
		Username:  username,
		Text:      text,
		CreatedAt: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.history.Append(message); err != nil {
		c.log.Error("Failed to persist message, withholding broadcast",
			"session_id", sessionID, "error", err)
		return
	}
	c.registry.Broadcast(ctx, toPostedEvent(message))
}

// Edit updates a message's text in place. Editing a message that no
// longer exists is a no-op, not an error. Authorship is not enforced
// server-side: any session may edit any message id. The client scopes
// the affordance to the author; that gap is kept deliberately.
func (c *Coordinator) Edit(ctx context.Context, sessionID string, id uuid.UUID, newText string) {
	newText = domain.SanitizeText(newText)
	if newText == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	updated, err := c.history.Update(id, newText, c.Clock())
	if errors.Is(err, chaterrors.ErrMessageNotFound) {
		c.log.Debug(fmt.Sprintf("Edit of unknown message %s ignored", id))
		return
	}
	if err != nil {
		c.log.Error("Failed to persist edit", "message_id", id, "error", err)
		return
	}
	c.registry.Broadcast(ctx, event.MessageEdited{ID: updated.ID, Text: updated.Text})
}

// Delete removes a message. Deleting twice is a no-op the second time,
// with no duplicate broadcast.
func (c *Coordinator) Delete(ctx context.Context, sessionID string, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.history.Remove(id)
	if errors.Is(err, chaterrors.ErrMessageNotFound) {
		c.log.Debug(fmt.Sprintf("Delete of unknown message %s ignored", id))
		return
	}
	if err != nil {
		c.log.Error("Failed to persist delete", "message_id", id, "error", err)
		return
	}
	c.registry.Broadcast(ctx, event.MessageDeleted{ID: id})
}

// Clear wipes the whole log and broadcasts the wipe, even when the log
// was already empty.
func (c *Coordinator) Clear(ctx context.Context, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.history.ClearAll(); err != nil {
		c.log.Error("Failed to clear history", "session_id", sessionID, "error", err)
		return
	}
	c.registry.Broadcast(ctx, event.ChatCleared{})
}

func toPostedEvent(m domain.Message) event.MessagePosted {
	return event.MessagePosted{
		ID:        m.ID,
		Username:  m.Username,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		Edited:    m.Edited(),
	}
}

var _ contract.IChat = (*Coordinator)(nil)

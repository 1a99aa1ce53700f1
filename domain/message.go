// Package domain contains core concepts of the chat relay.
// This file defines Message entities and the sanitization rules
// applied before a message enters the history log.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxMessages bounds the history log. Appending beyond the bound
	// evicts the oldest entries (FIFO by insertion order).
	MaxMessages = 100

	// MaxUsernameLength caps the author name kept on a message.
	MaxUsernameLength = 20

	// MaxTextLength caps the message body after trimming.
	MaxTextLength = 300
)

// Message represents one chat entry in the history log.
// Deletions are hard removals; there is no tombstone state.
type Message struct {
	ID        uuid.UUID
	Username  string
	Text      string
	CreatedAt time.Time
	EditedAt  *time.Time
}

// Edited reports whether the message carries an edit timestamp.
func (m Message) Edited() bool {
	return m.EditedAt != nil
}

// SanitizeUsername truncates an author name to MaxUsernameLength runes.
// Returns the empty string when the name is blank, which callers treat
// as a silent drop.
func SanitizeUsername(username string) string {
	if strings.TrimSpace(username) == "" {
		return ""
	}
	return Truncate(username, MaxUsernameLength)
}

// SanitizeText trims surrounding whitespace and truncates the body to
// MaxTextLength runes. Truncation is the recovery for oversized input,
// not an error.
func SanitizeText(text string) string {
	return Truncate(strings.TrimSpace(text), MaxTextLength)
}

// Truncate cuts s to at most limit runes, never splitting a rune.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

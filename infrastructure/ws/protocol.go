package ws

import (
	"chat-relay/domain/event"
	"time"
)

// Wire protocol: JSON frames tagged by "type". Event names match the
// original browser client, so frames double as socket-style events.
//
//	-> {type: "chat message", username, text}
//	-> {type: "edit message", id, text}
//	-> {type: "delete message", id}
//	-> {type: "clear chat"}
//	<- {type: "chat message", id, username, text, timestamp, edited?}
//	<- {type: "message edited", id, text}
//	<- {type: "message deleted", id}
//	<- {type: "chat cleared"}
type frame struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
}

type messageFrame struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Edited    bool      `json:"edited,omitempty"`
}

// toFrame translates a domain event into its wire shape. Returns nil
// for event types with no wire representation.
func toFrame(e event.DomainEvent) any {
	switch evt := e.(type) {
	case event.MessagePosted:
		return messageFrame{
			Type:      evt.Name(),
			ID:        evt.ID.String(),
			Username:  evt.Username,
			Text:      evt.Text,
			Timestamp: evt.CreatedAt,
			Edited:    evt.Edited,
		}
	case event.MessageEdited:
		return frame{Type: evt.Name(), ID: evt.ID.String(), Text: evt.Text}
	case event.MessageDeleted:
		return frame{Type: evt.Name(), ID: evt.ID.String()}
	case event.ChatCleared:
		return frame{Type: evt.Name()}
	}
	return nil
}

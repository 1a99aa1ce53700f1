package ws

import (
	"chat-relay/domain/event"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Inbound_Frames_Decode(t *testing.T) {
	req := require.New(t)

	var post frame
	req.NoError(json.Unmarshal([]byte(`{"type":"chat message","username":"alice","text":"hi"}`), &post))
	req.Equal("chat message", post.Type)
	req.Equal("alice", post.Username)
	req.Equal("hi", post.Text)

	var edit frame
	req.NoError(json.Unmarshal([]byte(`{"type":"edit message","id":"abc","text":"fixed"}`), &edit))
	req.Equal("edit message", edit.Type)
	req.Equal("abc", edit.ID)

	var clear frame
	req.NoError(json.Unmarshal([]byte(`{"type":"clear chat"}`), &clear))
	req.Equal("clear chat", clear.Type)
}

func Test_Posted_Event_Encodes_As_Chat_Message_Frame(t *testing.T) {
	req := require.New(t)
	id := uuid.New()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	payload, err := json.Marshal(toFrame(event.MessagePosted{
		ID:        id,
		Username:  "alice",
		Text:      "hi",
		CreatedAt: at,
	}))
	req.NoError(err)

	var decoded map[string]any
	req.NoError(json.Unmarshal(payload, &decoded))
	req.Equal("chat message", decoded["type"])
	req.Equal(id.String(), decoded["id"])
	req.Equal("alice", decoded["username"])
	req.Equal("hi", decoded["text"])
	req.Equal("2025-06-01T12:00:00Z", decoded["timestamp"])

	// The edited flag is omitted unless set
	req.NotContains(decoded, "edited")
}

func Test_Edited_Flag_Survives_Encoding(t *testing.T) {
	req := require.New(t)

	payload, err := json.Marshal(toFrame(event.MessagePosted{
		ID:        uuid.New(),
		Username:  "alice",
		Text:      "hi",
		CreatedAt: time.Now().UTC(),
		Edited:    true,
	}))
	req.NoError(err)
	req.Contains(string(payload), `"edited":true`)
}

func Test_Mutation_Events_Encode(t *testing.T) {
	req := require.New(t)
	id := uuid.New()

	payload, err := json.Marshal(toFrame(event.MessageEdited{ID: id, Text: "fixed"}))
	req.NoError(err)
	req.JSONEq(`{"type":"message edited","id":"`+id.String()+`","text":"fixed"}`, string(payload))

	payload, err = json.Marshal(toFrame(event.MessageDeleted{ID: id}))
	req.NoError(err)
	req.JSONEq(`{"type":"message deleted","id":"`+id.String()+`"}`, string(payload))

	payload, err = json.Marshal(toFrame(event.ChatCleared{}))
	req.NoError(err)
	req.JSONEq(`{"type":"chat cleared"}`, string(payload))
}

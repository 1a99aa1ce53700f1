package ws

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	args   []string
}

type fakeChat struct {
	calls []call
}

func (f *fakeChat) Join(_ context.Context, sessionID string, _ contract.EventSink) {
	f.calls = append(f.calls, call{"join", []string{sessionID}})
}

func (f *fakeChat) Leave(sessionID string) {
	f.calls = append(f.calls, call{"leave", []string{sessionID}})
}

func (f *fakeChat) Post(_ context.Context, sessionID, username, text string) {
	f.calls = append(f.calls, call{"post", []string{sessionID, username, text}})
}

func (f *fakeChat) Edit(_ context.Context, sessionID string, id uuid.UUID, newText string) {
	f.calls = append(f.calls, call{"edit", []string{sessionID, id.String(), newText}})
}

func (f *fakeChat) Delete(_ context.Context, sessionID string, id uuid.UUID) {
	f.calls = append(f.calls, call{"delete", []string{sessionID, id.String()}})
}

func (f *fakeChat) Clear(_ context.Context, sessionID string) {
	f.calls = append(f.calls, call{"clear", []string{sessionID}})
}

func Test_Dispatch_Routes_Frames_To_Coordinator(t *testing.T) {
	req := require.New(t)
	chat := &fakeChat{}
	server := NewServer(slog.Default(), chat, 8)
	ctx := context.Background()
	id := uuid.New()

	server.dispatch(ctx, "s1", frame{Type: "chat message", Username: "alice", Text: "hi"})
	server.dispatch(ctx, "s1", frame{Type: "edit message", ID: id.String(), Text: "fixed"})
	server.dispatch(ctx, "s1", frame{Type: "delete message", ID: id.String()})
	server.dispatch(ctx, "s1", frame{Type: "clear chat"})

	req.Equal([]call{
		{"post", []string{"s1", "alice", "hi"}},
		{"edit", []string{"s1", id.String(), "fixed"}},
		{"delete", []string{"s1", id.String()}},
		{"clear", []string{"s1"}},
	}, chat.calls)
}

func Test_Long_Paste_Fits_The_Read_Limit(t *testing.T) {
	req := require.New(t)
	chat := &fakeChat{}
	server := NewServer(slog.Default(), chat, 8)

	// A paste several times the text cap must reach the coordinator,
	// which truncates it, rather than tripping the read limit.
	paste := strings.Repeat("é", 10*domain.MaxTextLength)
	payload, err := json.Marshal(frame{Type: "chat message", Username: "alice", Text: paste})
	req.NoError(err)
	req.Less(len(payload), maxFrameSize)

	var decoded frame
	req.NoError(json.Unmarshal(payload, &decoded))
	server.dispatch(context.Background(), "s1", decoded)

	req.Len(chat.calls, 1)
	req.Equal("post", chat.calls[0].method)
	req.Equal(paste, chat.calls[0].args[2])
}

func Test_Dispatch_Ignores_Bad_IDs_And_Unknown_Types(t *testing.T) {
	req := require.New(t)
	chat := &fakeChat{}
	server := NewServer(slog.Default(), chat, 8)
	ctx := context.Background()

	server.dispatch(ctx, "s1", frame{Type: "edit message", ID: "not-a-uuid", Text: "x"})
	server.dispatch(ctx, "s1", frame{Type: "delete message", ID: ""})
	server.dispatch(ctx, "s1", frame{Type: "presence ping"})

	req.Empty(chat.calls)
}

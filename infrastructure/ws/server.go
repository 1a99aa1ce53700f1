package ws

import (
	"chat-relay/contract"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// maxFrameSize caps inbound frames well above any legal payload so
	// a long paste still arrives and gets truncated to the text cap,
	// instead of tripping the read limit and closing the connection.
	maxFrameSize = 16384
)

// Server upgrades HTTP requests to WebSocket connections and bridges
// them to the coordinator: inbound frames become coordinator calls,
// broadcast events flow back through a per-connection Sink.
type Server struct {
	log        *slog.Logger
	chat       contract.IChat
	upgrader   websocket.Upgrader
	bufferSize int
}

func NewServer(log *slog.Logger, chat contract.IChat, bufferSize int) *Server {
	return &Server{
		log:  log,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS handled at HTTP level; allow WS here
				return true
			},
		},
		bufferSize: bufferSize,
	}
}

// Handle serves one client connection until it disconnects. Join-time
// history replay happens before the read loop starts, so the client
// sees the backlog first.
func (s *Server) Handle(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	s.log.Info(fmt.Sprintf("A user connected: %s", sessionID))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The write pump starts before Join so the sink is drained while
	// the history replay fills it.
	snk := NewSink(s.bufferSize)
	go s.writePump(ctx, conn, snk, sessionID)

	s.chat.Join(ctx, sessionID, snk)
	defer s.chat.Leave(sessionID)

	s.readLoop(ctx, conn, sessionID)
	s.log.Info(fmt.Sprintf("A user disconnected: %s", sessionID))
}

// readLoop decodes inbound frames into coordinator calls. Malformed
// frames are ignored; no error frames exist in the protocol.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sessionID string) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("WebSocket read failed", "session_id", sessionID, "error", err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(payload, &f); err != nil {
			s.log.Debug("Ignoring malformed frame", "session_id", sessionID, "error", err)
			continue
		}
		s.dispatch(ctx, sessionID, f)
	}
}

func (s *Server) dispatch(ctx context.Context, sessionID string, f frame) {
	switch f.Type {
	case "chat message":
		s.chat.Post(ctx, sessionID, f.Username, f.Text)
	case "edit message":
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return
		}
		s.chat.Edit(ctx, sessionID, id, f.Text)
	case "delete message":
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return
		}
		s.chat.Delete(ctx, sessionID, id)
	case "clear chat":
		s.chat.Clear(ctx, sessionID)
	default:
		s.log.Debug(fmt.Sprintf("Ignoring unknown frame type %q", f.Type))
	}
}

// writePump drains the connection's sink and keeps the socket alive
// with periodic pings.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, snk *Sink, sessionID string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-snk.Events:
			payload := toFrame(evt)
			if payload == nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(payload); err != nil {
				s.log.Warn("WebSocket write failed", "session_id", sessionID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package dispatch

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Timing constants for the websocket keep-alive protocol, grounded on
// the teacher's internal/server/connection.go (writeWait, pongWait,
// pingPeriod, maxMessageSize).
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// ErrSessionClosed is returned by Send once a session has shut down.
var ErrSessionClosed = errors.New("dispatch: session closed")

// Handler processes one decoded Inbound message for a session.
type Handler interface {
	HandleInbound(sess *Session, in Inbound)
}

// Session wraps one client socket — human player or spectator — with
// buffered outbound delivery and a read/write pump pair, grounded on
// the teacher's internal/server/bot.go Bot.ReadPump/WritePump.
type Session struct {
	ID          string
	PlayerID    string
	DisplayName string

	conn    *websocket.Conn
	send    chan Outbound
	handler Handler
	logger  *log.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewSession constructs a session around an already-upgraded
// connection.
func NewSession(id string, conn *websocket.Conn, handler Handler, logger *log.Logger) *Session {
	return &Session{
		ID:      id,
		conn:    conn,
		send:    make(chan Outbound, 256),
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Done reports when the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Send enqueues msg for delivery. It fails at once if the session is
// closed; if the outbound buffer is full it waits up to writeWait and
// then returns an error.
func (s *Session) Send(msg Outbound) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	select {
	case s.send <- msg:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-time.After(writeWait):
		return errors.New("dispatch: send timed out")
	}
}

// ReadPump reads inbound client messages until the connection closes.
// It must run in its own goroutine; its deferred cleanup closes the
// session.
func (s *Session) ReadPump(onClose func(*Session)) {
	defer func() {
		s.close()
		if onClose != nil {
			onClose(s)
		}
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("unexpected websocket close", "session", s.ID, "err", err)
			}
			return
		}
		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			_ = s.Send(Outbound{Kind: OutboundError, Payload: ErrorPayload{Message: "malformed message"}})
			continue
		}
		if s.handler != nil {
			s.handler.HandleInbound(s, in)
		}
	}
}

// WritePump flushes the outbound queue and a periodic ping until the
// session closes.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
		s.close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

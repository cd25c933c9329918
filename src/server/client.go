package server

import (
	"sync"
	"time"

	"price-relay/src/helpers"
	"price-relay/src/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait = 2 * time.Second
)

// -----------------------------------------------------------------------------
// Session Structure
// -----------------------------------------------------------------------------

type outboundFrame struct {
	messageType int
	data        []byte
}

// Session is one live connection. The connection handler that created it is
// the only code that closes it; everything else just queues frames.
type Session struct {
	id     string
	conn   *websocket.Conn
	logger *logger.Logger

	mu     sync.Mutex
	send   chan outboundFrame
	closed bool
}

// -----------------------------------------------------------------------------

func newSession(conn *websocket.Conn, sendBuffer int, log *logger.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		logger: log,
		send:   make(chan outboundFrame, sendBuffer),
	}
}

// -----------------------------------------------------------------------------

func (s *Session) ID() string {
	return s.id
}

// -----------------------------------------------------------------------------

func (s *Session) SendText(payload []byte) error {
	return s.enqueue(websocket.TextMessage, payload)
}

// -----------------------------------------------------------------------------

func (s *Session) SendBinary(payload []byte) error {
	return s.enqueue(websocket.BinaryMessage, payload)
}

// -----------------------------------------------------------------------------

func (s *Session) enqueue(messageType int, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return helpers.ErrSessionClosed
	}

	select {
	case s.send <- outboundFrame{messageType: messageType, data: payload}:
		return nil
	default:
		return helpers.ErrSendBufferFull
	}
}

// -----------------------------------------------------------------------------

// markClosed stops accepting frames and lets writePump finish.
func (s *Session) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// -----------------------------------------------------------------------------

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// -----------------------------------------------------------------------------
// writePump - sole writer of data frames for the connection
// -----------------------------------------------------------------------------

// writePump drains the send queue. pingPeriod of zero disables keep-alive
// pings. A failed write closes the socket, which also ends the read loop.
func (s *Session) writePump(pingPeriod time.Duration) {
	var tick <-chan time.Time
	if pingPeriod > 0 {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer s.conn.Close()

	for {
		select {
		case frame, ok := <-s.send:
			if !ok {
				// Read loop ended; nothing left to say.
				return
			}

			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(frame.messageType, frame.data); err != nil {
				s.logger.Info("Write error on %s: %v", s.id, err)
				s.markClosed()
				return
			}

		case <-tick:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.markClosed()
				return
			}
		}
	}
}

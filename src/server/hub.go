package server

import (
	"encoding/json"
	"time"

	"price-relay/src/metrics"
	"price-relay/src/router"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Upgrade
// -----------------------------------------------------------------------------

func (s *RelayServer) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the error response.
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	session := newSession(conn, s.Config.Hub.SendBuffer, s.Logger)
	s.Logger.Info("Client %s connected from %s", session.ID(), c.ClientIP())
	metrics.ConnectionsTotal.Inc()

	if !s.track(session) {
		conn.Close()
		return
	}

	idle := time.Duration(s.Config.Hub.IdleTimeoutSeconds) * time.Second
	s.tasks.Go(func() { session.writePump(pingPeriod(idle)) })
	s.tasks.Go(func() { s.readLoop(session, idle) })
}

// -----------------------------------------------------------------------------
// Connection State
// -----------------------------------------------------------------------------

// connState is owned by one read loop and never shared.
type connState struct {
	awaitingLogin bool
	role          router.Role
	assigned      string
}

func (st *connState) roleLabel() string {
	if st.role == router.RoleUnrecognized {
		return "unassigned"
	}
	return st.role.String()
}

// -----------------------------------------------------------------------------
// readLoop - processes inbound frames strictly in arrival order
// -----------------------------------------------------------------------------

func (s *RelayServer) readLoop(session *Session, idle time.Duration) {
	st := &connState{awaitingLogin: true}
	metrics.ConnectionsCurrent.WithLabelValues(st.roleLabel()).Inc()

	defer func() {
		session.markClosed()
		session.conn.Close()
		s.untrack(session)
		metrics.ConnectionsCurrent.WithLabelValues(st.roleLabel()).Dec()

		if s.Config.Pool.ReleaseOnDisconnect && st.assigned != "" {
			if s.Pool.Release(st.assigned) {
				s.Logger.Info("Released %s after %s disconnected", st.assigned, session.ID())
			}
		}
		s.Logger.Info("Client %s disconnected", session.ID())
	}()

	conn := session.conn
	conn.SetReadLimit(s.Config.Hub.MaxMessageSize)
	extend := func() {
		if idle > 0 {
			conn.SetReadDeadline(time.Now().Add(idle))
		}
	}
	extend()

	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.Logger.Info("WebSocket error on %s: %v", session.ID(), err)
			}
			return
		}
		extend()

		switch messageType {
		case websocket.TextMessage:
			if !s.handleText(session, st, data) {
				return
			}
		case websocket.BinaryMessage:
			if err := session.SendBinary(data); err != nil {
				s.Logger.Info("Binary echo to %s failed: %v", session.ID(), err)
				return
			}
		}
	}
}

// -----------------------------------------------------------------------------

// handleText returns false when the connection can no longer be served.
func (s *RelayServer) handleText(session *Session, st *connState, data []byte) bool {
	s.Logger.Debug("recv %s: %s", session.ID(), data)

	frame := router.Classify(data, st.awaitingLogin)
	st.awaitingLogin = false

	if frame.Kind == router.FrameCommand {
		delivered, err := s.Router.HandleCommand(frame.Payload)
		if err != nil {
			s.Logger.Debug("Discarded frame from %s: %v", session.ID(), err)
			return true
		}
		s.Logger.Debug("Relayed update from %s to %d subscribers", session.ID(), delivered)
		return true
	}

	res := s.Router.HandleLogin(session, frame.Role)
	if res.Role != router.RoleUnrecognized {
		metrics.ConnectionsCurrent.WithLabelValues(st.roleLabel()).Dec()
		st.role = res.Role
		metrics.ConnectionsCurrent.WithLabelValues(st.roleLabel()).Inc()
	}
	st.assigned = res.Assigned

	if res.Reply == nil {
		return true
	}

	reply, err := json.Marshal(res.Reply)
	if err != nil {
		s.Logger.Error("Failed to encode login response: %v", err)
		return true
	}
	if err := session.SendText(reply); err != nil {
		s.Logger.Info("Login reply to %s failed: %v", session.ID(), err)
		return false
	}
	return true
}

// -----------------------------------------------------------------------------

// pingPeriod keeps pings inside the idle window.
func pingPeriod(idle time.Duration) time.Duration {
	if idle <= 0 {
		return 0
	}
	return (idle * 9) / 10
}

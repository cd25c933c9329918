package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
	"price-relay/src/router"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// RelayServer
// -----------------------------------------------------------------------------

type RelayServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Pool     interfaces.IWorkPool
	Registry interfaces.ISubscriberRegistry
	Store    interfaces.IPriceStore
	Router   *router.BroadcastRouter

	engine     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader
	tasks      TaskGroup

	// Open sessions, owned here so shutdown can close them.
	mu       sync.Mutex
	sessions map[*Session]struct{}
	stopping bool
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewRelayServer(cfg *models.MConfig, log *logger.Logger, pool interfaces.IWorkPool, reg interfaces.ISubscriberRegistry, store interfaces.IPriceStore) *RelayServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &RelayServer{
		Config:   cfg,
		Logger:   log,
		Pool:     pool,
		Registry: reg,
		Store:    store,
		Router: router.NewBroadcastRouter(pool, reg, store, log.Named("Router"), router.Options{
			DashboardSkipDraw: cfg.Pool.DashboardSkipDraw,
		}),
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[*Session]struct{}),
	}

	s.engine.Use(gin.Recovery())
	if cfg.LogLevel == "DEBUG" {
		s.engine.Use(gin.Logger())
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *RelayServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/pool", s.getPool)
	s.engine.GET("/api/prices/:symbol", s.getPrices)
	s.engine.GET("/metrics", s.getMetrics())

	// WebSocket endpoint, shared by workers and dashboards
	s.engine.GET("/ws", s.handleWebSocket)

	// Dashboard page
	s.engine.GET("/", s.getDashboard)
}

// -----------------------------------------------------------------------------

// Handler exposes the routes for embedding or httptest.
func (s *RelayServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *RelayServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// -----------------------------------------------------------------------------

// Serve blocks until Shutdown is called or the listener fails.
func (s *RelayServer) Serve(lis net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.Logger.Info("Starting server on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Shutdown stops accepting requests, closes every open session and waits for
// their tasks to finish or ctx to expire.
func (s *RelayServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopping = true
	srv := s.httpServer
	open := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	for _, sess := range open {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		sess.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		sess.conn.Close()
	}

	if waitErr := s.tasks.Wait(ctx); waitErr != nil && err == nil {
		err = waitErr
	}
	return err
}

// -----------------------------------------------------------------------------

// ActiveConnections returns the number of open sessions.
func (s *RelayServer) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// -----------------------------------------------------------------------------

// WaitIdle blocks until every connection task has returned.
func (s *RelayServer) WaitIdle(ctx context.Context) error {
	return s.tasks.Wait(ctx)
}

// -----------------------------------------------------------------------------

func (s *RelayServer) track(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return false
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *RelayServer) untrack(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
}

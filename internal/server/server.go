// Package server provides the HTTP server for the TMF673 Geographic
// Address Management API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/openoda/geoaddress/internal/server/cache"
	"github.com/openoda/geoaddress/internal/server/events"
	"github.com/openoda/geoaddress/internal/server/handlers"
	"github.com/openoda/geoaddress/internal/server/metrics"
	"github.com/openoda/geoaddress/internal/server/sse"
	ws "github.com/openoda/geoaddress/internal/server/websocket"
	"github.com/openoda/geoaddress/internal/store"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store          *store.Store
	specs          handlers.SpecSource
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a new server instance with the given configuration. Store
// mutations are fanned out to the WebSocket and SSE transports through
// the event broker.
func New(documents *store.Store, specs handlers.SpecSource, cfg Config, logger *zerolog.Logger) *Server {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(events.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(events.NewSSESubscriber(sseBroadcaster))

	// The store notifies synchronously on the mutating goroutine;
	// Publish never blocks.
	documents.OnChange(func(event store.Event) {
		broker.Publish(events.Type(event.Type), event.ResourceType, event.Resource)
	})

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		store:          documents,
		specs:          specs,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        metrics.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown gracefully shuts down background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	// Give the service loops a moment to drain.
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

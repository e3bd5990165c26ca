// Package handlers provides HTTP request handlers for the TMF673 API.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/openoda/geoaddress/internal/apispec"
	"github.com/openoda/geoaddress/internal/config"
	"github.com/openoda/geoaddress/internal/entrypoint"
	"github.com/openoda/geoaddress/internal/ordered"
	"github.com/openoda/geoaddress/internal/server/cache"
	"github.com/openoda/geoaddress/internal/server/sse"
	ws "github.com/openoda/geoaddress/internal/server/websocket"
	"github.com/openoda/geoaddress/internal/store"
)

// SpecSource exposes the loaded API specification to the handlers.
type SpecSource interface {
	Document() *apispec.Document
	JSON() ([]byte, error)
	YAML() ([]byte, error)
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store          *store.Store
	specs          SpecSource
	prefix         string
	database       config.Database
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger

	// buildEntrypoint assembles the discovery document. Split out so the
	// failure path of the entrypoint handler can be exercised in tests.
	buildEntrypoint func(*apispec.Document) *ordered.Map
}

// New creates a new Handlers instance.
func New(
	documents *store.Store,
	specs SpecSource,
	identity entrypoint.Identity,
	prefix string,
	database config.Database,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	builder := entrypoint.NewBuilder(identity)
	return &Handlers{
		store:           documents,
		specs:           specs,
		prefix:          prefix,
		database:        database,
		cache:           cache,
		wsHub:           wsHub,
		sseBroadcaster:  sseBroadcaster,
		upgrader:        upgrader,
		logger:          logger,
		buildEntrypoint: builder.Build,
	}
}

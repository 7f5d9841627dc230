// Package handler exposes the HTTP handlers of the eco-education API.  Each
// handler takes its id or filters from the path and query, binds and
// validates the body, makes exactly one storage call and writes JSON.
package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/repository"
	"github.com/iliyamo/eco-education/internal/service"
)

// storageTimeout bounds every storage call made by a handler.
const storageTimeout = 5 * time.Second

// Handler bundles the dependencies shared by every endpoint.
type Handler struct {
	Store  repository.Storage
	Events service.Publisher
	Log    *zap.Logger
	Cfg    config.Config
}

// New returns a Handler.  A nil publisher or logger is replaced by a no-op.
func New(cfg config.Config, store repository.Storage, events service.Publisher, log *zap.Logger) *Handler {
	if events == nil {
		events = service.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: store, Events: events, Log: log, Cfg: cfg}
}

func withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, storageTimeout)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/config"
	"github.com/iliyamo/eco-education/internal/handler"
	"github.com/iliyamo/eco-education/internal/repository"
	"github.com/iliyamo/eco-education/internal/router"
	"github.com/iliyamo/eco-education/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	cfg := config.Load()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	db, err := openDatabase(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer db.Close()
	store := repository.NewStore(db, cfg.BcryptCost)

	rc := config.LoadRedisConfig()
	rdb := config.NewRedisClient(rc)
	if rdb == nil {
		log.Warn("redis unavailable, response cache and rate limiting disabled", zap.String("addr", rc.Addr))
	} else {
		defer rdb.Close()
	}

	var events service.Publisher = service.Noop{}
	if qc := config.LoadQueueConfig(); qc.Enabled {
		events = service.NewAMQPPublisher(qc.URL)
		log.Info("event publishing enabled")
	}
	defer events.Close()

	h := handler.New(cfg, store, events, log)
	e := router.New(h, router.Options{
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Log:       log,
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

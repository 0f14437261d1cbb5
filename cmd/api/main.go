package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "intern_insider/internal/adapters/http_server"
	"intern_insider/internal/adapters/observability"
	"intern_insider/internal/app"
	"intern_insider/internal/shared"
	mongorepo "intern_insider/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(cfg shared.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	conn, err := mongorepo.Open(ctx, mongorepo.Options{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		defer cancel()
		if err := conn.Close(cctx); err != nil {
			log.Warn().Err(err).Msg("closing store connection")
		}
	}()

	repo := mongorepo.New(conn, cfg.MongoCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:        app.NewQueryService(repo),
		C:        app.NewCommandService(repo),
		Health:   conn,
		WriteRPS: cfg.WriteRPS,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(sctx)
}

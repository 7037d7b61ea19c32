package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lolnotes/internal/config"
	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/engine"
	"github.com/DoyleJ11/lolnotes/internal/httpapi"
	"github.com/DoyleJ11/lolnotes/internal/hub"
	"github.com/DoyleJ11/lolnotes/internal/kafka"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/logging"
	"github.com/DoyleJ11/lolnotes/internal/recorder"
	"github.com/DoyleJ11/lolnotes/internal/snapshot"
	"github.com/DoyleJ11/lolnotes/internal/status"
	"github.com/DoyleJ11/lolnotes/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.StatsDriver, cfg.StatsDSN, log)
	if err != nil {
		return fmt.Errorf("open stats store: %w", err)
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	// first query pays the driver's startup cost here instead of on a live lobby
	if err := store.Warm(ctx); err != nil {
		log.Warn("stats store warm-up failed", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer func() { err = multierr.Append(err, producer.Close()) }()

	pipe := connection.NewPipe(log)
	lb := lobby.NewLobby(ctx, cfg.TeamSlots)

	eng := engine.New(store, lb, engine.Options{
		Slots:        cfg.TeamSlots,
		QueryTimeout: cfg.StatsQueryTimeout,
		Observer:     producer,
		Logger:       log.Named("engine"),
	})

	ind := status.NewIndicator(status.LoaderFile(cfg.LoaderPath))
	h := hub.NewHub(ctx, eng, ind, lb, log.Named("hub"))
	pipe.OnConnectedChanged(h.OnConnectedChanged)

	src := snapshot.NewSource(ctx, pipe, h.OnSnapshot, log.Named("snapshot"))
	recorder.New(store, pipe, log.Named("recorder"))

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Store:  store,
			Status: h,
			Cache:  eng.Cache(),
			Lobby:  lb,
			Pipe:   pipe,
			Log:    log.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.Stringer("status", ind.Current()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		src.Close()
		h.Close()
		return err
	})

	return g.Wait()
}

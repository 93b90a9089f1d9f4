package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"campus-rentals/internal/api/docstore"
	"campus-rentals/internal/config"
	"campus-rentals/internal/logger"
	"campus-rentals/internal/middleware"
	"campus-rentals/internal/offers"
	"campus-rentals/internal/scheduler"
	"campus-rentals/internal/storage/postgres"
	"campus-rentals/internal/storage/redis"

	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *postgres.Store
	gate    *offers.Gate
	monitor *offers.Monitor
	service *offers.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to prepare schema", zap.Error(err))
	}

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	client := docstore.New(cfg.DocstoreBaseURL, cfg.DocstoreTimeout, log,
		docstore.WithToken(cfg.DocstoreToken),
		docstore.WrapTransport(func(next http.RoundTripper) http.RoundTripper {
			return middleware.LoggingTransport(next, log)
		}),
	)

	gate := offers.NewGate(false)
	offerCache := offers.NewCacheStore(cfg.CacheCapacity, cache, log)
	guard := middleware.RemoteReadGuard(cache, cfg.RemoteReadsPerMinute, log)
	fetcher := offers.NewFetcher(client, offerCache, guard, cfg.DocstoreTimeout, log)

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		gate:    gate,
		monitor: offers.NewMonitor(gate, client, cfg.ProbeInterval, probeTimeout, log),
		service: offers.NewService(gate, fetcher, offerCache, offers.NewEvaluator(cfg.Location), store, log),
	}

	a.monitor.Probe(ctx)

	if len(os.Args) > 1 {
		if err := a.runCommand(ctx, os.Args[1], os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		return
	}

	a.serve(ctx)
}

func (a *app) serve(ctx context.Context) {
	a.log.Info("starting offer sync",
		zap.String("log_level", a.cfg.LogLevel),
		zap.Duration("refresh_interval", a.cfg.RefreshInterval),
		zap.Int("cache_capacity", a.cfg.CacheCapacity),
		zap.Bool("online", a.gate.Online()),
	)

	if err := a.list(ctx); err != nil {
		a.log.Error("failed to print listing", zap.Error(err))
	}

	go a.monitor.Run(ctx)
	go scheduler.New(a.service, a.gate, a.cfg.RefreshInterval, a.cfg.DocstoreTimeout, a.log).Start(ctx)

	a.log.Info("offer sync is running, press Ctrl+C to stop")
	<-ctx.Done()

	a.log.Info("shutting down gracefully...")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	server "concierge/internal/adapters/http_server"
	"concierge/internal/adapters/observability"
	redisad "concierge/internal/adapters/redis"
	"concierge/internal/app"
	"concierge/internal/bootstrap"
	"concierge/internal/domain"
	"concierge/internal/shared"
	"concierge/internal/state"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store := state.New(app.DefaultPropertySnapshot())
	store.OnChange(func(c domain.Change) {
		log.Debug().Str("slice", string(c.Slice)).Uint64("version", c.Version).Msg("slice committed")
	})

	agg, err := bootstrap.Aggregator(cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}

	// slice-change publishing
	if cfg.Redis.Addr != "" {
		pub := redisad.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, store)
		defer pub.Close()
		if err := pub.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; publishing will keep trying")
		}
		changes, cancel := store.Subscribe(16)
		defer cancel()
		go pub.Run(ctx, changes)
		log.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.Channel).Msg("publishing slice changes")
	}

	if cfg.Refresh.OnStart {
		go agg.FetchAll(ctx)
	}

	if cfg.Refresh.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Refresh.Schedule, func() { agg.FetchAll(ctx) }); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Refresh.Schedule).Msg("invalid refresh schedule")
		}
		c.Start()
		defer c.Stop()
		log.Info().Str("schedule", cfg.Refresh.Schedule).Msg("scheduled refresh enabled")
	}

	// http
	srv := server.New(cfg.HTTP.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:                app.NewQueryService(store, cfg.QR.BaseURL),
		Cycles:           agg,
		RefreshPerMinute: cfg.HTTP.RefreshPerMinute,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("weather", cfg.Weather.Provider).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/cache"
	"github.com/geocoder89/invoicehub/internal/config"
	"github.com/geocoder89/invoicehub/internal/db"
	httpx "github.com/geocoder89/invoicehub/internal/http"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/geocoder89/invoicehub/internal/repo/cached"
	"github.com/geocoder89/invoicehub/internal/security"
	invoicesvc "github.com/geocoder89/invoicehub/internal/service/invoice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	tracing := observability.TracerConfig{
		ServiceName: "invoicehub",
		Env:         cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	}

	shutdownTracer, err := observability.InitTracer(ctx, tracing)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	st, err := openStore(ctx, cfg, log, prom)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.close()

	// list cache: redis when configured so replicas share it, otherwise per process
	var backend cached.Backend
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, cfg.CacheTTL)
		defer rc.Close()

		pingCtx, cancel := config.WithTimeout(2 * time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, list cache will fall through", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()

		backend = rc
	} else {
		backend = cache.New(cfg.CacheTTL)
	}

	invoices := cached.NewInvoicesRepo(st.invoices, backend, prom, log)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	authn := auth.NewAuthenticator(st.users, security.NewHasher(cfg.BcryptCost), tokens, log)

	seedCtx, cancelSeed := config.WithTimeout(10 * time.Second)
	if err := db.EnsureSeedUser(seedCtx, authn, cfg, log); err != nil {
		log.Error("seed user failed", "err", err)
	}
	cancelSeed()

	var draining atomic.Bool

	// set up routers with the log
	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Config:   cfg,
		Prom:     prom,
		Gatherer: reg,
		Auth:     authn,
		Verifier: authn,
		Invoices: invoicesvc.New(invoices, log),
		Ping:     st.ping,
		Tracing:  tracing.Enabled(),

		ShuttingDown: draining.Load,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")
	draining.Store(true)

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

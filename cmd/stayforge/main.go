package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	sfhttp "github.com/Strob0t/StayForge/internal/adapter/http"
	sfnats "github.com/Strob0t/StayForge/internal/adapter/nats"
	sfotel "github.com/Strob0t/StayForge/internal/adapter/otel"
	"github.com/Strob0t/StayForge/internal/adapter/postgres"
	"github.com/Strob0t/StayForge/internal/adapter/ristretto"
	"github.com/Strob0t/StayForge/internal/adapter/ws"
	"github.com/Strob0t/StayForge/internal/config"
	"github.com/Strob0t/StayForge/internal/logger"
	"github.com/Strob0t/StayForge/internal/middleware"
	"github.com/Strob0t/StayForge/internal/port/changefeed"
	"github.com/Strob0t/StayForge/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"telemetry", cfg.Telemetry.Enabled,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	feed, err := sfnats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = feed.Close() }()
	slog.Info("change feed connected", "url", cfg.NATS.URL)

	snapCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer snapCache.Close()

	// --- Telemetry ---

	hub := ws.NewHub()

	if cfg.Telemetry.Enabled {
		shutdown, err := sfotel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}()

		metrics, err := sfotel.NewMetrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		cancelTap, err := metrics.TapFeed(ctx, feed)
		if err != nil {
			return fmt.Errorf("metrics tap: %w", err)
		}
		defer cancelTap()
		if err := metrics.ObserveConnections(hub.ConnectionCount); err != nil {
			return fmt.Errorf("connection gauge: %w", err)
		}
	}

	// --- Services ---

	store := postgres.NewStore(pool)
	ids := postgres.NewIdentityProvider(pool, cfg.Auth.BcryptCost)

	authSvc := service.NewAuthService(store, ids, &cfg.Auth)
	backofficeSvc := service.NewBackofficeService(store, ids, feed)
	propertySvc := service.NewPropertyService(store, feed)
	roomSvc := service.NewRoomService(store, feed)
	tenantSvc := service.NewTenantService(store, feed)
	paymentSvc := service.NewPaymentService(store, feed)
	maintenanceSvc := service.NewMaintenanceService(store, feed)
	notificationSvc := service.NewNotificationService(store, feed)
	statsSvc := service.NewStatsService(store, snapCache, feed, cfg.Cache.SnapshotTTL)

	// Relay every change event to connected websocket clients, and let
	// the stats cache drop snapshots touched by source-table changes.
	cancelRelay, err := feed.Subscribe(ctx, changefeed.Filter{}, hub.BroadcastChange)
	if err != nil {
		return fmt.Errorf("ws relay: %w", err)
	}
	defer cancelRelay()

	if err := statsSvc.StartInvalidation(ctx); err != nil {
		return fmt.Errorf("stats invalidation: %w", err)
	}

	// --- HTTP ---

	handlers := sfhttp.NewHandlers(
		authSvc,
		backofficeSvc,
		propertySvc,
		roomSvc,
		tenantSvc,
		paymentSvc,
		maintenanceSvc,
		notificationSvc,
		statsSvc,
		hub,
		cfg.Notifications.ScopeByProperty,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(sfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(sfhttp.SecurityHeaders)
	r.Use(sfhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Enabled {
		r.Use(sfotel.HTTPMiddleware(cfg.Logging.Service))
	}

	r.Get("/health", healthHandler(pool, feed))

	sfhttp.MountRoutes(r, handlers, authSvc)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler reports readiness of the two backing systems.
func healthHandler(pool interface{ Ping(context.Context) error }, feed *sfnats.Feed) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
		NATS     string `json:"nats"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Postgres: "ok", NATS: "ok"}

		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			status.Status = "degraded"
			status.Postgres = "unreachable"
		}
		if !feed.Connected() {
			status.Status = "degraded"
			status.NATS = "disconnected"
		}

		w.Header().Set("Content-Type", "application/json")
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}

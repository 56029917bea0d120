package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedasree28/student-buzz-central/internal/app"
	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/config"
	"github.com/vedasree28/student-buzz-central/internal/storage/postgres"
	transporthttp "github.com/vedasree28/student-buzz-central/internal/transport/http"
	"github.com/vedasree28/student-buzz-central/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()

	registrationRepo := postgres.NewRegistrationRepository(pool)
	ledger := app.NewRegistrationService(registrationRepo, clk)

	notificationRepo := postgres.NewNotificationRepository(pool)
	notificationSvc := app.NewNotificationService(notificationRepo, registrationRepo, clk)

	eventRepo := postgres.NewEventRepository(pool)
	eventSvc := app.NewEventService(eventRepo, clk,
		app.WithNotifier(notificationSvc),
		app.WithLogger(logger),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/events", transporthttp.HandleEvents(eventSvc, ledger, clk))
	mux.Handle("/events/", transporthttp.HandleEventSubroutes(eventSvc, ledger, clk))
	mux.Handle("/notifications", transporthttp.HandleNotifications(notificationSvc))
	mux.Handle("/notifications/", transporthttp.HandleNotificationSubroutes(notificationSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

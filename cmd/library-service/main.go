package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YusovID/library-service/internal/auth"
	"github.com/YusovID/library-service/internal/config"
	"github.com/YusovID/library-service/internal/notify"
	"github.com/YusovID/library-service/internal/repository/postgres"
	"github.com/YusovID/library-service/internal/service"
	myhttp "github.com/YusovID/library-service/internal/transport/http"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/YusovID/library-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting library-service", slog.String("env", cfg.Env))

	policy, err := service.NewPolicy(cfg.Circulation)
	if err != nil {
		return fmt.Errorf("invalid circulation policy: %w", err)
	}

	db, err := postgres.NewDB(ctx, cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	repos := service.Repositories{
		Catalog:        postgres.NewCatalogRepository(log),
		Members:        postgres.NewMemberRepository(log),
		Loans:          postgres.NewLoanRepository(log),
		Reservations:   postgres.NewReservationRepository(log),
		ReturnRequests: postgres.NewReturnRequestRepository(log),
		Payments:       postgres.NewPaymentRepository(log),
		Reports:        postgres.NewReportRepository(db.DB(), log),
	}

	hub := notify.NewHub(log)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	go hub.Run(hubCtx)

	notifier := notify.Multi{notify.NewLogNotifier(log), hub}

	srv := myhttp.NewServer(log, myhttp.Services{
		Circulation: service.NewCirculationService(db.DB(), log, policy, repos, notifier),
		Penalties:   service.NewPenaltyService(db.DB(), log, policy, repos),
		Catalog:     service.NewCatalogService(db.DB(), log, repos),
		Members:     service.NewMemberService(db.DB(), log, repos),
		Reports:     service.NewReportService(log, repos),
	}, auth.New(cfg.Auth), hub, cfg.Server.AllowedOrigins)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)

	go startServer(log, httpServer, errChan)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %w", err)
	}
}

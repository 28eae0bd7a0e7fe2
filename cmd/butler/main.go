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

	"github.com/joho/godotenv"

	"github.com/antoniostano/butler/internal/booking"
	"github.com/antoniostano/butler/internal/config"
	"github.com/antoniostano/butler/internal/dialog"
	"github.com/antoniostano/butler/internal/httpapi"
	"github.com/antoniostano/butler/internal/memory"
	"github.com/antoniostano/butler/internal/nlu"
	"github.com/antoniostano/butler/internal/observability"
	"github.com/antoniostano/butler/internal/responder"
	"github.com/antoniostano/butler/internal/session"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	memoryStore, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer memoryStore.Close()
	if cfg.DatabaseURL != "" {
		log.Printf("exchange store: postgres")
	} else {
		log.Printf("exchange store: in-memory")
	}

	ledger, err := booking.NewLedger(cfg.BookingDBPath)
	if err != nil {
		log.Fatalf("booking ledger init failed: %v", err)
	}
	defer ledger.Close()
	if cfg.BookingDBPath != "" {
		log.Printf("booking ledger: sqlite (%s)", cfg.BookingDBPath)
	} else {
		log.Printf("booking ledger: in-memory")
	}

	bookingEngine := booking.NewEngine(booking.NewCatalog(), ledger)

	sessions := session.NewStore(cfg.SessionTimeout, cfg.SessionRetention, cfg.HistoryCapacity)
	sessions.SetEvictHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("evicted").Inc()
		metrics.AwakeSessions.Set(float64(sessions.AwakeCount()))
	})

	dialogEngine := dialog.NewEngine(dialog.Options{
		Sessions:    sessions,
		Classifier:  nlu.New(),
		Booker:      bookingEngine,
		Responder:   responder.New(cfg.ResponderSeed),
		History:     memoryStore,
		Metrics:     metrics,
		WakeToken:   cfg.WakeToken,
		ExitPhrases: cfg.ExitPhrases,
	})

	api := httpapi.New(cfg, sessions, dialogEngine, bookingEngine, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

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

	"github.com/damon-houk/finance-ledger/internal/application/service"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/cache"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/config"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/db"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/events"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/handler"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed", map[string]interface{}{"error": err.Error()})
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Starting finance ledger", map[string]interface{}{
		"port":    cfg.Port,
		"persist": cfg.Persist,
		"amqp":    cfg.AMQPURL != "",
	})

	var observers []service.LedgerObserver

	var journal *db.BadgerJournal
	if cfg.Persist {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}

		badgerDB, err := db.OpenBadger(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing journal", map[string]interface{}{"error": err.Error()})
			}
		}()

		journal = db.NewBadgerJournal(badgerDB)
		observers = append(observers, journal)
	}

	if cfg.AMQPURL != "" {
		client, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		defer client.Close()

		observers = append(observers, events.NewLedgerEventPublisher(client, cfg.AMQPRoutingKey, log))
	}

	ledger := service.NewLedgerService(log, observers...)
	defer ledger.Close()

	if journal != nil {
		n, err := ledger.Restore(context.Background(), journal)
		if err != nil {
			return fmt.Errorf("restore ledger: %w", err)
		}
		log.Info("Ledger restored", map[string]interface{}{"transactions": n})
	}

	deletions := service.NewDeletionService(ledger, cache.NewConfirmationCache(cfg.DeleteConfirmTTL), log)
	goals := service.NewGoalService(log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log))

	handler.NewTransactionHandler(ledger, log).RegisterRoutes(router)
	handler.NewDeletionHandler(deletions, log).RegisterRoutes(router)
	handler.NewGoalHandler(goals, log).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.DeleteSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := deletions.Sweep(); n > 0 {
					log.Debug("Expired delete confirmations dropped", map[string]interface{}{"count": n})
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

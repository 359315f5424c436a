package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/config"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/db"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/events"
	grpcserver "github.com/spbu-ds-practicum-2025/bank-backoffice/internal/grpc"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/httpapi"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		logrus.Fatalf("failed to create logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("back office server stopped with error")
	}
	logger.Info("back office server stopped")
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{})
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()
	logger.Info("database connection pool initialized")

	if err := db.Migrate(ctx, pool.Pool); err != nil {
		return err
	}
	logger.Info("database migrations applied")

	var publisher domain.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey, logger)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publisher = rabbit
	} else {
		logger.Warn("event publishing disabled")
	}

	service := domain.NewBackOffice(domain.Repositories{
		Customers:    db.NewCustomerRepository(pool.Pool),
		AccountTypes: db.NewAccountTypeRepository(pool.Pool),
		Accounts:     db.NewAccountRepository(pool.Pool),
		Operations:   db.NewOperationRepository(pool.Pool),
		Parameters:   db.NewParameterRepository(pool.Pool),
		ActivityLog:  db.NewActivityLogRepository(pool.Pool),
	}, db.NewTransactionManager(pool.Pool, logger), domain.NewParameterStore(nil), publisher)

	param, err := service.EnsureParameter(ctx, domain.ParameterInput{
		CountryCode: cfg.Parameter.CountryCode,
		BankNumber:  cfg.Parameter.BankNumber,
	})
	if err != nil {
		return fmt.Errorf("failed to load bank parameters: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"country_code": param.CountryCode,
		"bank_number":  param.BankNumber,
	}).Info("bank parameters loaded")

	httpServer := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(service, httpapi.RouterConfig{
			JWTSecret: []byte(cfg.JWTSecret),
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpcserver.NewServer(pool, logger, 0)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.GRPCPort, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("port", cfg.HTTPPort).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.WithField("port", cfg.GRPCPort).Info("gRPC server starting")
		if err := grpcSrv.Serve(grpcListener); err != nil {
			return fmt.Errorf("gRPC server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		grpcSrv.Watch(gctx)
		return nil
	})

	if cfg.Interest.Interval > 0 {
		g.Go(func() error {
			runInterestSchedule(gctx, service, cfg.Interest, logger)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcSrv.Stop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runInterestSchedule runs the interest recount every interval until ctx is cancelled.
func runInterestSchedule(ctx context.Context, service *domain.BackOffice, cfg config.InterestConfig, logger logrus.FieldLogger) {
	log := logger.WithFields(logrus.Fields{
		"interval": cfg.Interval.String(),
		"employee": cfg.Employee,
	})
	log.Info("interest schedule started")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("interest schedule stopped")
			return
		case <-ticker.C:
			result, err := service.RunInterest(ctx, cfg.Employee)
			if err != nil {
				log.WithError(err).Error("scheduled interest run failed")
				continue
			}
			log.WithField("count", result.Count).Info(result.Message())
		}
	}
}

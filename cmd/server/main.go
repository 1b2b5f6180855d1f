package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	bookmarkHandler "linkshelf/internal/bookmark/handler"
	bookmarkMetrics "linkshelf/internal/bookmark/metrics"
	bookmarkService "linkshelf/internal/bookmark/service"
	bookmarkStore "linkshelf/internal/bookmark/store"
	httpapi "linkshelf/internal/http"
	"linkshelf/internal/platform/config"
	"linkshelf/internal/platform/database"
	"linkshelf/internal/platform/httpserver"
	"linkshelf/internal/platform/logger"
	"linkshelf/internal/platform/metrics"
	"linkshelf/internal/platform/redis"
	"linkshelf/internal/session"
	"linkshelf/pkg/platform/audit"
	kafkapub "linkshelf/pkg/platform/audit/publishers/kafka"
	"linkshelf/pkg/platform/audit/publishers/logpub"
	"linkshelf/pkg/platform/circuit"
)

const sessionIssuer = "linkshelf"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checks := map[string]httpapi.Checker{}

	store, db, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["store"] = db.PingContext
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = redisClient.Health
	}

	publisher, err := openAudit(ctx, cfg.Audit, log)
	if err != nil {
		return err
	}
	defer publisher.Close()
	if p, ok := publisher.(*kafkapub.Publisher); ok {
		checks["kafka"] = p.Ping
	}

	svc, err := bookmarkService.New(store,
		bookmarkService.WithLogger(log),
		bookmarkService.WithAuditPublisher(publisher),
		bookmarkService.WithMetrics(bookmarkMetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	sessions, err := newSessions(cfg.Session, publisher, log)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		Session:        session.Middleware(sessions),
		Modules: []httpapi.Registrar{
			bookmarkHandler.New(svc, log),
			session.NewHandler(sessions, log, cfg.Server.SecureCookies),
		},
		Checks: checks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
}

func openStore(ctx context.Context, cfg config.Store, log *slog.Logger) (bookmarkService.Store, *sql.DB, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory store; records are lost on restart")
		return bookmarkStore.NewInMemory(), nil, nil
	}
	db, err := database.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := bookmarkStore.NewSQL(db, cfg.Driver)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Info("record store ready", "driver", cfg.Driver)
	return store, db, nil
}

// openAudit sends events to Kafka when brokers are configured, falling back
// to the log while the broker is unreachable.
func openAudit(ctx context.Context, cfg config.Audit, log *slog.Logger) (audit.Publisher, error) {
	logPublisher := logpub.New(log)
	if len(cfg.Brokers) == 0 {
		return logPublisher, nil
	}
	p, err := kafkapub.New(cfg.Brokers, cfg.Topic,
		kafkapub.WithLogger(log),
		kafkapub.WithFallback(logPublisher),
		kafkapub.WithBreaker(circuit.New("audit-kafka",
			circuit.WithFailureThreshold(cfg.BreakerFailures),
			circuit.WithSuccessThreshold(cfg.BreakerSuccesses),
		)),
	)
	if err != nil {
		return nil, err
	}
	if err := p.EnsureTopic(ctx); err != nil {
		log.Warn("audit topic not ensured", "topic", cfg.Topic, "error", err)
	}
	return p, nil
}

func newSessions(cfg config.Session, publisher audit.Publisher, log *slog.Logger) (*session.Service, error) {
	email, password, hash := cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash
	if !cfg.AdminConfigured() {
		log.Warn("admin login disabled; set LINKSHELF_ADMIN_EMAIL and LINKSHELF_ADMIN_PASSWORD_HASH")
		email, password, hash = "disabled@localhost", uuid.NewString(), ""
	}
	creds, err := session.NewCredentials(email, password, hash)
	if err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}
	signer := session.NewSigner(cfg.SigningKey, sessionIssuer, cfg.TTL)
	return session.New(creds, signer,
		session.WithLogger(log),
		session.WithAuditPublisher(publisher),
	), nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"warden/internal/admin"
	jwttoken "warden/internal/jwt_token"
	"warden/internal/platform/config"
	"warden/internal/platform/httpserver"
	"warden/internal/platform/logger"
	"warden/internal/platform/metrics"
	"warden/internal/platform/postgres"
	redisclient "warden/internal/platform/redis"
	ratelimitmetrics "warden/internal/ratelimit/metrics"
	ratelimitmw "warden/internal/ratelimit/middleware"
	"warden/internal/ratelimit/store/bucket"
	"warden/internal/screening/decision"
	screeninghandler "warden/internal/screening/handler"
	screeningmetrics "warden/internal/screening/metrics"
	"warden/internal/screening/models"
	screeningservice "warden/internal/screening/service"
	screeningstore "warden/internal/screening/store"
	httptransport "warden/internal/transport/http"
	"warden/internal/watchlist"
	webhookhandler "warden/internal/webhook/handler"
	webhookmetrics "warden/internal/webhook/metrics"
	"warden/internal/webhook/publisher"
	webhookservice "warden/internal/webhook/service"
	"warden/internal/webhook/signing"
	webhookstore "warden/internal/webhook/store"
	audit "warden/pkg/platform/audit"
	"warden/pkg/platform/audit/publishers/compliance"
	"warden/pkg/platform/audit/publishers/ops"
	auditmemory "warden/pkg/platform/audit/store/memory"
	auditpostgres "warden/pkg/platform/audit/store/postgres"
	"warden/pkg/platform/circuit"
	authmw "warden/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	health := map[string]httptransport.HealthCheck{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	var (
		records    screeningservice.Store = screeningstore.NewInMemory()
		auditStore audit.Store            = auditmemory.NewInMemoryStore()
		screenOpts []screeningservice.Option
	)
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		records = screeningstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		screenOpts = append(screenOpts, screeningservice.WithTx(screeningservice.SQLTx{DB: db}))
		health["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		log.Info("using postgres record store")
	} else {
		log.Warn("DATABASE_URL not set; records and audit events are kept in memory")
	}

	complianceAudit := compliance.New(auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
	)
	tracker := ops.New(auditStore,
		ops.WithLogger(log),
		ops.WithQueueSize(cfg.Audit.OpsQueueSize),
		ops.WithMetrics(ops.NewMetrics(reg)),
	)
	defer tracker.Close()

	index := watchlist.NewIndex(watchlist.SeedEntries(), watchlist.SeedDataFiles())
	screening := screeningservice.New(records, index, append(screenOpts,
		screeningservice.WithLogger(log),
		screeningservice.WithMetrics(screeningmetrics.New(reg)),
		screeningservice.WithAuditor(complianceAudit),
		screeningservice.WithMinScore(cfg.Screening.MinScore),
		screeningservice.WithWorkers(cfg.Screening.Workers),
		screeningservice.WithDefaultAssignment(models.Assignment{
			Division:   cfg.Screening.DefaultDivision,
			AssignedTo: cfg.Screening.DefaultAssignees,
		}.Or(models.DefaultAssignment())),
	)...)

	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var (
		eventLog webhookservice.EventLog = webhookstore.NewInMemory(0)
		buckets  ratelimitmw.BucketStore = bucket.NewInMemoryBucketStore()
	)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		eventLog = webhookstore.NewRedis(rdb.Client)
		buckets = bucket.NewRedisBucketStore(rdb.Client)
		health["redis"] = rdb.Health
		log.Info("using redis for the webhook log and rate limits")
	}

	webhookOpts := []webhookservice.Option{
		webhookservice.WithLogger(log),
		webhookservice.WithMetrics(webhookmetrics.New(reg)),
		webhookservice.WithTracker(tracker),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := publisher.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.WebhookTopic,
			publisher.WithDeliveryTimeout(cfg.Kafka.DeliveryTimeout),
		)
		if err != nil {
			return err
		}
		defer sink.Close()
		webhookOpts = append(webhookOpts, webhookservice.WithPublisher(sink, circuit.New("webhook-sink")))
		log.Info("publishing webhook events to kafka", "topic", sink.Topic())
	}
	emitter, err := webhookservice.New(screening, eventLog,
		signing.Config{Secret: cfg.Webhook.Secret, Host: cfg.Webhook.Host, Path: cfg.Webhook.Path},
		webhookOpts...,
	)
	if err != nil {
		return err
	}

	var validator authmw.JWTValidator
	if cfg.Auth.JWTSigningKey != "" {
		validator = jwttoken.NewValidatorAdapter(jwttoken.NewValidator(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer))
	} else {
		log.Warn("JWT_SIGNING_KEY not set; API is unauthenticated and changes are attributed to the default reviewer")
	}

	var limiter func(http.Handler) http.Handler
	if cfg.RateLimit.Requests > 0 {
		limiter = ratelimitmw.New(buckets, cfg.RateLimit.Requests, cfg.RateLimit.Window, log,
			ratelimitmw.WithMetrics(ratelimitmetrics.New(reg)),
		).RateLimit
	}

	thresholds := decision.Thresholds{
		AutoAccept: cfg.Screening.DefaultAutoAccept,
		AutoReject: cfg.Screening.DefaultAutoReject,
	}
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Validator:      validator,
		AdminToken:     cfg.Auth.AdminToken,
		AdminTokenHash: cfg.Auth.AdminTokenHash,
		RateLimit:      limiter,
		API: []httptransport.Module{
			screeninghandler.New(screening, log, thresholds),
			webhookhandler.New(emitter, log),
		},
		Admin:  admin.NewHandler(admin.NewService(screening, emitter, log), log),
		Health: health,
	})

	srv := httpserver.New(cfg.Server, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting warden", "addr", cfg.Server.Addr, "regulated_mode", cfg.Server.RegulatedMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

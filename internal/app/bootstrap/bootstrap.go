package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	offerauthorization "boxoffice/contexts/ordering/offer-authorization"
	postgresadapter "boxoffice/contexts/ordering/offer-authorization/adapters/postgres"
	providersadapter "boxoffice/contexts/ordering/offer-authorization/adapters/providers"
	"boxoffice/contexts/ordering/offer-authorization/application/workers"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	"boxoffice/internal/platform/config"
	"boxoffice/internal/platform/db"
	"boxoffice/internal/platform/httpserver"
	"boxoffice/internal/platform/messaging"
)

// Package bootstrap is the composition root: all construction and wiring
// happens here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func (a *APIApp) Run() error {
	defer a.postgres.Close()
	return a.server.Start()
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.Kafka
	outboxRelay  workers.OutboxRelay
	holdReaper   workers.HoldReaper
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := offerauthorization.NewModule(offerauthorization.Dependencies{
		ProjectID:    cfg.ProjectID,
		Transactions: repo,
		Actions:      repo,
		Events:       repo,
		Catalog:      repo,
		Verifier:     providersadapter.NewVoucherly(providerConfig(cfg.Voucherly, logger)),
		Providers:    buildDispatcher(cfg, logger),
		Outbox:       repo,
		Clock:        postgresadapter.SystemClock{},
		IDGenerator:  postgresadapter.UUIDGenerator{},
		Logger:       logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	clock := postgresadapter.SystemClock{}

	return &WorkerApp{
		postgres: pg,
		kafka:    kafka,
		outboxRelay: workers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     clock,
			Topic:     cfg.EventTopic,
			Logger:    logger,
		},
		holdReaper: workers.HoldReaper{
			Actions:   repo,
			Providers: buildDispatcher(cfg, logger),
			Clock:     clock,
			Logger:    logger,
		},
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	defer w.postgres.Close()
	defer w.kafka.Close()

	interval := w.pollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker started",
		"event", "worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.outboxRelay.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Warn("outbox relay pass failed", "error", err.Error())
			}
			if err := w.holdReaper.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Warn("hold reaper pass failed", "error", err.Error())
			}
		}
	}
}

func buildDispatcher(cfg config.Config, logger *slog.Logger) *providersadapter.Dispatcher {
	return providersadapter.NewDispatcher(entities.ProviderID(cfg.DefaultProvider),
		providersadapter.NewVenueHub(providerConfig(cfg.VenueHub, logger)),
		providersadapter.NewGateLink(providerConfig(cfg.GateLink, logger)),
		providersadapter.NewCardVault(providerConfig(cfg.CardVault, logger)),
		providersadapter.NewPointBank(providerConfig(cfg.PointBank, logger)),
		providersadapter.NewClubPass(providerConfig(cfg.ClubPass, logger)),
	)
}

func providerConfig(cfg config.ProviderConfig, logger *slog.Logger) providersadapter.Config {
	return providersadapter.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Logger:  logger,
	}
}

func normalizeAddr(port string) string {
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

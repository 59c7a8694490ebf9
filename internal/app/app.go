package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/fanarena/contest-engine/internal/config"
	"github.com/fanarena/contest-engine/internal/domain/fantasy"
	"github.com/fanarena/contest-engine/internal/domain/wallet"
	"github.com/fanarena/contest-engine/internal/infrastructure/identity"
	"github.com/fanarena/contest-engine/internal/infrastructure/repository/memory"
	"github.com/fanarena/contest-engine/internal/infrastructure/repository/postgres"
	"github.com/fanarena/contest-engine/internal/infrastructure/statsfeed"
	walletinfra "github.com/fanarena/contest-engine/internal/infrastructure/wallet"
	"github.com/fanarena/contest-engine/internal/interfaces/httpapi"
	"github.com/fanarena/contest-engine/internal/platform/cache"
	"github.com/fanarena/contest-engine/internal/platform/logging"
	"github.com/fanarena/contest-engine/internal/platform/resilience"
	"github.com/fanarena/contest-engine/internal/platform/sequence"
	"github.com/fanarena/contest-engine/internal/usecase"
	"github.com/fanarena/contest-engine/internal/workers"
)

// App bundles the HTTP server and background workers with their shutdown
// hooks.
type App struct {
	Server    *http.Server
	Scheduler *workers.ContestScheduler

	db     *sqlx.DB
	logger *slog.Logger
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	platformLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(platformLogger)

	tournamentRepo := memory.NewTournamentRepository()
	catalogTeamRepo := memory.NewTeamRepository()
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewFantasyTeamRepository()
	contestRepo := memory.NewContestRepository()
	poolRepo := memory.NewPrizePoolRepository()
	rewardRepo := memory.NewUserRewardRepository()
	txRepo := memory.NewTransactionRepository()
	scoreRepo := memory.NewScoreRepository()
	ruleRepo := memory.NewRuleRepository()

	var db *sqlx.DB
	var seq sequence.Source = sequence.NewMemorySource()
	if cfg.DBEnabled {
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		seq = postgres.NewSequenceSource(db)
		logger.Info("durable counters enabled")
	}

	var ledger wallet.Ledger
	if cfg.WalletEnabled {
		ledger = walletinfra.NewHTTPClient(walletinfra.ClientConfig{
			BaseURL:    cfg.WalletBaseURL,
			Timeout:    cfg.WalletTimeout,
			MaxRetries: cfg.WalletMaxRetries,
			Logger:     platformLogger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WalletCircuitEnabled,
				FailureThreshold: cfg.WalletCircuitFailureCount,
				OpenTimeout:      cfg.WalletCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WalletCircuitHalfOpenMaxReq,
			},
		})
	} else {
		ledger = walletinfra.NewMemoryLedger()
	}

	var feed usecase.StatsFeed
	if cfg.StatsFeedEnabled {
		feed = statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:        cfg.StatsFeedBaseURL,
			Timeout:        cfg.StatsFeedTimeout,
			MaxRetries:     cfg.StatsFeedMaxRetries,
			MaxConcurrency: cfg.StatsFeedMaxConcurrency,
			Logger:         platformLogger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenReq,
			},
		})
	}

	teamSvc := usecase.NewTeamService(teamRepo, playerRepo, fantasy.DefaultRules(), seq, logger)
	contestSvc := usecase.NewContestService(contestRepo, teamRepo, matchRepo, poolRepo, txRepo, ledger, seq, logger)
	scoringSvc := usecase.NewScoringService(scoreRepo, ruleRepo, teamRepo, logger)
	settlementSvc := usecase.NewSettlementService(contestRepo, teamRepo, scoringSvc, logger)
	rewardSvc := usecase.NewRewardService(rewardRepo, poolRepo, contestRepo, txRepo, ledger, seq, logger)
	catalogSvc := usecase.NewCatalogService(tournamentRepo, catalogTeamRepo, playerRepo, matchRepo, cache.NewStore(cfg.CacheTTL), logger)
	ingestionSvc := usecase.NewIngestionService(feed, scoringSvc, matchRepo, cfg.IngestWorkers, logger)

	if cfg.SeedDemoData {
		if err := seedDemoCatalog(ctx, tournamentRepo, catalogTeamRepo, playerRepo, matchRepo); err != nil {
			return nil, fmt.Errorf("seed demo catalog: %w", err)
		}
		logger.Info("demo catalog seeded")
	}

	identityClient := identity.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(teamSvc, contestSvc, scoringSvc, settlementSvc, rewardSvc, catalogSvc, ingestionSvc, logger)
	router := httpapi.NewRouter(handler, identityClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	scheduler := workers.NewContestScheduler(contestSvc, ingestionSvc, cfg.JobPromoteInterval, cfg.JobIngestInterval, logger)

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
		logger:    logger,
	}, nil
}

// Close releases resources not covered by the HTTP server shutdown.
func (a *App) Close() error {
	if err := a.Scheduler.Stop(); err != nil {
		a.logger.Warn("scheduler stop failed", "error", err)
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtdata/courtsync/external/euroleague"
	"github.com/courtdata/courtsync/external/winner"
	"github.com/courtdata/courtsync/internal/config"
	"github.com/courtdata/courtsync/internal/infrastructure/repository/postgres"
	"github.com/courtdata/courtsync/internal/interfaces/httpapi"
	idgen "github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/platform/resilience"
	"github.com/courtdata/courtsync/internal/usecase"
)

// Application owns the wired service graph: repositories over one shared
// database handle, the sync services, registered provider adapters and the
// operator HTTP server.
type Application struct {
	cfg      config.Config
	logger   *logging.Logger
	db       *sqlx.DB
	syncRuns *usecase.SyncRunService
	server   *http.Server
}

func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	leagues := postgres.NewLeagueRepository(db)
	seasons := postgres.NewSeasonRepository(db)
	teams := postgres.NewTeamRepository(db)
	players := postgres.NewPlayerRepository(db)
	rosters := postgres.NewRosterRepository(db)
	games := postgres.NewGameRepository(db)
	stats := postgres.NewGameStatsRepository(db)
	events := postgres.NewPlayByPlayRepository(db)
	caches := postgres.NewSyncCacheRepository(db)
	conflicts := postgres.NewConflictRepository(db)

	ids := idgen.NewRandomGenerator()

	playerSvc := usecase.NewPlayerSyncService(players, conflicts, ids, logger)
	teamSvc := usecase.NewTeamSyncService(teams, rosters, conflicts, playerSvc, ids, logger)
	gameSvc := usecase.NewGameSyncService(games, stats, events, rosters, teams, teamSvc, playerSvc, ids, logger)
	leagueSvc := usecase.NewLeagueSyncService(leagues, seasons, ids, logger)
	cacheSvc := usecase.NewSyncCacheService(caches, logger)
	syncRuns := usecase.NewSyncRunService(leagueSvc, teamSvc, gameSvc, cacheSvc, logger)

	if err := registerProviders(cfg, logger, syncRuns); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close database after wiring failure", "error", closeErr)
		}
		return nil, err
	}

	handler := httpapi.NewHandler(syncRuns, playerSvc, conflicts, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close database after wiring failure", "error", closeErr)
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		syncRuns: syncRuns,
		server:   server,
	}, nil
}

// registerProviders binds every enabled upstream feed to the league its
// data lands in. The league rows themselves are created lazily on the
// first sync pass.
func registerProviders(cfg config.Config, logger *logging.Logger, syncRuns *usecase.SyncRunService) error {
	if cfg.Winner.Enabled {
		client := winner.NewClient(winner.ClientConfig{
			BaseURL:        cfg.Winner.BaseURL,
			Token:          cfg.Winner.APIToken,
			Timeout:        cfg.Winner.Timeout,
			MaxRetries:     cfg.Winner.MaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitConfig(cfg.Winner),
		})
		if err := syncRuns.Register(client, leagueBinding(cfg.Winner)); err != nil {
			return fmt.Errorf("register winner adapter: %w", err)
		}
	}

	if cfg.Euroleague.Enabled {
		client := euroleague.NewClient(euroleague.ClientConfig{
			BaseURL:        cfg.Euroleague.BaseURL,
			Token:          cfg.Euroleague.APIToken,
			Timeout:        cfg.Euroleague.Timeout,
			MaxRetries:     cfg.Euroleague.MaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitConfig(cfg.Euroleague),
		})
		if err := syncRuns.Register(client, leagueBinding(cfg.Euroleague)); err != nil {
			return fmt.Errorf("register euroleague adapter: %w", err)
		}
	}

	return nil
}

func circuitConfig(p config.ProviderConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          p.CircuitEnabled,
		FailureThreshold: p.CircuitFailureCount,
		OpenTimeout:      p.CircuitOpenTimeout,
		HalfOpenMaxReq:   p.CircuitHalfOpenMaxReq,
	}
}

func leagueBinding(p config.ProviderConfig) usecase.LeagueBinding {
	return usecase.LeagueBinding{
		LeagueID: p.LeagueID,
		Name:     p.LeagueName,
		Country:  p.LeagueCountry,
	}
}

// HTTPServer exposes the configured server for the entrypoint to run.
func (a *Application) HTTPServer() *http.Server {
	return a.server
}

// RunPeriodicSync triggers a full sync of every registered source on the
// configured interval until ctx is cancelled. Failures are logged and the
// loop keeps going; a broken provider must not stop the others.
func (a *Application) RunPeriodicSync(ctx context.Context) {
	if a.cfg.SyncInterval <= 0 {
		a.logger.Info("periodic sync disabled")
		return
	}

	ticker := time.NewTicker(a.cfg.SyncInterval)
	defer ticker.Stop()

	a.logger.Info("periodic sync started", "interval", a.cfg.SyncInterval.String())
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			result, err := a.syncRuns.Run(ctx, usecase.SyncRunInput{
				MaxWorkers: a.cfg.SyncMaxWorkers,
			})
			if err != nil {
				a.logger.ErrorContext(ctx, "periodic sync failed", "error", err)
				continue
			}
			a.logger.InfoContext(ctx, "periodic sync finished",
				"tasks", result.TaskCount,
				"created", result.CreatedCount,
				"merged", result.MergedCount,
				"skipped", result.SkippedCount,
				"conflicts", result.ConflictCount,
				"failed", result.FailedCount,
			)
		}
	}
}

func (a *Application) Close() error {
	return a.db.Close()
}

package app

import (
	"fmt"
	"net/http"

	"github.com/fplmate/fpl-live/external/fpl"
	"github.com/fplmate/fpl-live/internal/config"
	"github.com/fplmate/fpl-live/internal/infrastructure/repository/memory"
	"github.com/fplmate/fpl-live/internal/interfaces/httpapi"
	"github.com/fplmate/fpl-live/internal/platform/logging"
	"github.com/fplmate/fpl-live/internal/platform/resilience"
	"github.com/fplmate/fpl-live/internal/usecase"
)

// Application holds the built HTTP server together with the background
// tracker so main can start and stop both.
type Application struct {
	Server  *http.Server
	Tracker *usecase.TrackerService
}

// New wires the upstream client, repositories, services and HTTP router
// into a runnable application.
func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	provider := fpl.NewClient(fpl.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		Timeout:    cfg.FPLTimeout,
		MaxRetries: cfg.FPLMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	catalogRepo := memory.NewCatalogRepository()
	entryRepo := memory.NewEntryRepository()
	picksRepo := memory.NewPicksRepository()
	transferRepo := memory.NewTransferRepository()
	liveRepo := memory.NewLiveStatsRepository(cfg.LiveCacheTTL)

	catalogSvc := usecase.NewCatalogService(provider, catalogRepo, logger)
	leagueSvc := usecase.NewLeagueService(
		provider,
		catalogSvc,
		entryRepo,
		picksRepo,
		transferRepo,
		cfg.FPLLeagueID,
		logger,
	)
	scoringSvc := usecase.NewScoringService(provider, catalogSvc, leagueSvc, liveRepo, cfg.PicksWorkerCount, logger)
	tableSvc := usecase.NewTableService(catalogSvc, leagueSvc, scoringSvc, logger)
	analyticsSvc := usecase.NewAnalyticsService(catalogSvc, leagueSvc, scoringSvc, cfg.TransferWorkerCount, logger)
	trackerSvc := usecase.NewTrackerService(tableSvc, scoringSvc, cfg.TrackerInterval, cfg.TrackerHistoryLimit, logger)
	trackerSvc.Subscribe(func(snap usecase.TrackerSnapshot) {
		logger.Info("tracker snapshot captured",
			"gameweek", snap.Gameweek,
			"teams", len(snap.Table.Rows),
			"players", len(snap.Players),
		)
	})

	handler := httpapi.NewHandler(catalogSvc, leagueSvc, scoringSvc, tableSvc, analyticsSvc, trackerSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Application{Server: server, Tracker: trackerSvc}, nil
}

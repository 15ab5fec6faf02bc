package app

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/tdshowdown/td-showdown/external/discord"
	"github.com/tdshowdown/td-showdown/external/tank01"
	"github.com/tdshowdown/td-showdown/internal/config"
	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/infrastructure/repository/postgres"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
	"github.com/tdshowdown/td-showdown/internal/platform/resilience"
	"github.com/tdshowdown/td-showdown/internal/usecase"
)

// App holds the wired reconciliation services. Each service backs one
// subcommand of the reconciler binary.
type App struct {
	Schedule    *usecase.ScheduleService
	Roster      *usecase.RosterService
	InjuryGate  *usecase.InjuryService
	Scores      *usecase.ScoreService
	Leaderboard *usecase.LeaderboardService

	WeekSchedule game.WeekSchedule

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	db, err := openDB(cfg.DBURL)
	if err != nil {
		return nil, err
	}

	gameRepo := postgres.NewGameRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	pickRepo := postgres.NewPickRepository(db)
	windowRepo := postgres.NewPickWindowRepository(db)
	boardRepo := postgres.NewLeaderboardRepository(db)
	usageRepo := postgres.NewAPIUsageRepository(db)

	stats := tank01.NewClient(tank01.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.Tank01Timeout},
		BaseURL:    cfg.Tank01BaseURL,
		APIKey:     cfg.Tank01APIKey,
		APIHost:    cfg.Tank01APIHost,
		MaxRetries: cfg.Tank01MaxRetries,
		Usage:      usageRepo,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.Tank01CircuitEnabled,
			FailureThreshold: cfg.Tank01CircuitFailureCount,
			OpenTimeout:      cfg.Tank01CircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.Tank01CircuitHalfOpenMaxReq,
		},
	})

	notifier := discord.NewWebhook(discord.WebhookConfig{
		HTTPClient:      &http.Client{Timeout: cfg.NotifyTimeout},
		URL:             cfg.DiscordWebhookURL,
		MaxRetries:      uint64(cfg.NotifyMaxRetries),
		InitialInterval: cfg.NotifyInitialInterval,
	}, logger)

	weekSchedule := game.NewWeekSchedule(cfg.WeekStartDates)

	return &App{
		Schedule: usecase.NewScheduleService(
			gameRepo,
			windowRepo,
			stats,
			weekSchedule,
			cfg.SourceLocation,
			cfg.TargetLocation,
			logger,
		),
		Roster:       usecase.NewRosterService(playerRepo, pickRepo, stats, notifier, logger),
		InjuryGate:   usecase.NewInjuryService(playerRepo, pickRepo, notifier, logger),
		Scores:       usecase.NewScoreService(pickRepo, gameRepo, boardRepo, stats, cfg.ScoreMaxWorkers, logger),
		Leaderboard:  usecase.NewLeaderboardService(boardRepo, notifier, logger),
		WeekSchedule: weekSchedule,
		db:           db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

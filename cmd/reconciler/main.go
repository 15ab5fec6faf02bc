package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tdshowdown/td-showdown/internal/app"
	"github.com/tdshowdown/td-showdown/internal/config"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
	"github.com/tdshowdown/td-showdown/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	pass := strings.ToLower(strings.TrimSpace(os.Args[1]))
	if err := runPass(ctx, application, cfg, pass); err != nil {
		logger.Error("pass failed", "pass", pass, "error", err)
		os.Exit(1)
	}
}

func runPass(ctx context.Context, application *app.App, cfg config.Config, pass string) error {
	started := time.Now()
	logger := logging.Default()

	switch pass {
	case "schedule":
		result, err := application.Schedule.ReconcileSeason(ctx, cfg.Season)
		if err != nil {
			return err
		}
		logger.Info("schedule pass done",
			"inserted", result.Inserted,
			"updated", result.Updated,
			"unchanged", result.Unchanged,
			"skipped", result.Skipped,
			"windows_created", result.WindowsCreated,
			"elapsed", time.Since(started),
		)
	case "roster":
		result, err := application.Roster.ReconcilePlayers(ctx, cfg.Season)
		if err != nil {
			return err
		}
		logger.Info("roster pass done",
			"inserted", result.Inserted,
			"updated", result.Updated,
			"unchanged", result.Unchanged,
			"skipped", result.Skipped,
			"picks_flagged", result.PicksFlagged,
			"users_notified", result.UsersNotified,
			"elapsed", time.Since(started),
		)
	case "injury-gate":
		policy, err := usecase.ParseInjuryPolicy(cfg.InjuryPolicy)
		if err != nil {
			return err
		}
		result, err := application.InjuryGate.EnforceGate(ctx, cfg.Season, policy)
		if err != nil {
			return err
		}
		logger.Info("injury gate done",
			"policy", string(policy),
			"players_checked", result.PlayersChecked,
			"picks_flagged", result.PicksFlagged,
			"picks_removed", result.PicksRemoved,
			"users_notified", result.UsersNotified,
			"elapsed", time.Since(started),
		)
	case "scores":
		result, err := application.Scores.ReconcileScores(ctx, cfg.Season)
		if err != nil {
			return err
		}
		logger.Info("score pass done",
			"picks_pending", result.PicksPending,
			"games_checked", result.GamesChecked,
			"games_failed", result.GamesFailed,
			"picks_resolved", result.PicksResolved,
			"points_awarded", result.PointsAwarded,
			"elapsed", time.Since(started),
		)
	case "leaderboard":
		week, ok := application.WeekSchedule.CurrentWeek(time.Now().In(cfg.SourceLocation))
		if !ok {
			return fmt.Errorf("no configured week covers today")
		}
		if err := application.Leaderboard.Publish(ctx, week, cfg.Season); err != nil {
			return err
		}
		logger.Info("leaderboard published", "week", week, "elapsed", time.Since(started))
	default:
		printUsage()
		return fmt.Errorf("unknown pass %q", pass)
	}

	return nil
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <schedule|roster|injury-gate|scores|leaderboard>\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s schedule\n", name)
	fmt.Fprintf(os.Stderr, "  %s scores\n", name)
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

// LeaderboardService publishes results tables to the notification channel.
// It never mutates store state.
type LeaderboardService struct {
	boardRepo leaderboard.Repository
	notifier  Notifier
	logger    *logging.Logger
}

func NewLeaderboardService(boardRepo leaderboard.Repository, notifier Notifier, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		boardRepo: boardRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Publish posts the weekly results table followed by the season standings.
func (s *LeaderboardService) Publish(ctx context.Context, week, season int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Publish")
	defer span.End()

	if week <= 0 || season <= 0 {
		return fmt.Errorf("%w: week and season must be greater than zero", ErrInvalidInput)
	}

	weekly, err := s.boardRepo.ListWeeklyResults(ctx, week, season)
	if err != nil {
		return fmt.Errorf("list weekly results week=%d: %w", week, err)
	}
	if err := s.notifier.Send(ctx, formatWeeklyTable(week, weekly)); err != nil {
		return fmt.Errorf("publish weekly table week=%d: %w", week, err)
	}

	overall, err := s.boardRepo.ListOverall(ctx, season)
	if err != nil {
		return fmt.Errorf("list overall standings season=%d: %w", season, err)
	}
	if err := s.notifier.Send(ctx, formatOverallTable(season, overall)); err != nil {
		return fmt.Errorf("publish overall table season=%d: %w", season, err)
	}

	s.logger.InfoContext(ctx, "leaderboard published",
		"week", week,
		"season", season,
		"weekly_rows", len(weekly),
		"overall_rows", len(overall),
	)
	return nil
}

func formatWeeklyTable(week int, rows []leaderboard.WeeklyRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("**Week %d results**\nNo picks recorded yet.", week)
	}

	nameWidth := len("Player")
	for _, row := range rows {
		if len(row.PlayerName) > nameWidth {
			nameWidth = len(row.PlayerName)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Week %d results**\n```\n", week)
	fmt.Fprintf(&b, "%-*s  %-2s  %s\n", nameWidth, "Player", "TD", "Pts")
	for _, row := range rows {
		mark := "-"
		if row.Successful {
			mark = "Y"
		}
		fmt.Fprintf(&b, "%-*s  %-2s  %d\n", nameWidth, row.PlayerName, mark, row.Points)
	}
	b.WriteString("```")
	return b.String()
}

func formatOverallTable(season int, rows []leaderboard.OverallRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("**Season %d standings**\nNo points on the board yet.", season)
	}

	nameWidth := len("Player")
	for _, row := range rows {
		if len(row.Username) > nameWidth {
			nameWidth = len(row.Username)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Season %d standings**\n```\n", season)
	fmt.Fprintf(&b, "%-4s  %-*s  %s\n", "Rank", nameWidth, "Player", "Pts")
	for i, row := range rows {
		fmt.Fprintf(&b, "%-4d  %-*s  %d\n", i+1, nameWidth, row.Username, row.TotalPoints)
	}
	b.WriteString("```")
	return b.String()
}

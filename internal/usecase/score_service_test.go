package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

func TestScoreService_ReconcileScores_AwardsOncePerWeek(t *testing.T) {
	t.Parallel()

	pickRepo := &stubPickRepository{
		picks: []pick.Pick{
			{ID: 1, UserID: "user-a", Week: 7, Season: 2024, PlayerID: "3121422", GameID: "g1"},
			{ID: 2, UserID: "user-b", Week: 7, Season: 2024, PlayerID: "4241479", GameID: "g1"},
		},
	}
	gameRepo := &stubGameRepository{
		byID: map[string]game.Game{
			"g1": {ID: "g1", Status: game.StatusInProgress},
		},
	}
	boardRepo := &stubBoardRepository{
		entries: map[string]*leaderboard.Entry{
			"user-a": {UserID: "user-a", Week: 7},
			"user-b": {UserID: "user-b", Week: 7},
		},
	}
	provider := &stubStatsProvider{
		boxScores: map[string]ExternalBoxScore{
			"g1": {
				GameID:     "g1",
				Status:     "Final",
				StatusCode: 2,
				ScoringPlays: []ExternalScoringPlay{
					{ScoreType: "TD", PlayerIDs: []string{"3121422"}},
					{ScoreType: "FG", PlayerIDs: []string{"4241479"}},
				},
			},
		},
	}

	service := NewScoreService(pickRepo, gameRepo, boardRepo, provider, 2, logging.NewNop())

	got, err := service.ReconcileScores(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileScores error: %v", err)
	}
	if got.PicksPending != 2 || got.GamesChecked != 1 || got.PicksResolved != 1 || got.PointsAwarded != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if !pickRepo.picks[0].IsSuccessful {
		t.Fatalf("expected touchdown scorer's pick resolved")
	}
	if pickRepo.picks[1].IsSuccessful {
		t.Fatalf("field goal must not resolve a pick")
	}

	if boardRepo.entries["user-a"].PointsWeek != 1 || boardRepo.entries["user-a"].TotalPoints != 1 {
		t.Fatalf("unexpected leaderboard entry: %+v", boardRepo.entries["user-a"])
	}
	if boardRepo.entries["user-b"].PointsWeek != 0 {
		t.Fatalf("user-b must not score: %+v", boardRepo.entries["user-b"])
	}

	updated := gameRepo.byID["g1"]
	if updated.Status != "Final" || updated.StatusCode != 2 {
		t.Fatalf("expected game status update, got %+v", updated)
	}
	if len(provider.boxCalls) != 1 {
		t.Fatalf("expected one box score fetch per game, got %d", len(provider.boxCalls))
	}

	// Resolved picks drop out of the pending set, so a rerun changes nothing.
	again, err := service.ReconcileScores(context.Background(), 2024)
	if err != nil {
		t.Fatalf("second ReconcileScores error: %v", err)
	}
	if again.PicksResolved != 0 || again.PointsAwarded != 0 {
		t.Fatalf("rerun must be a no-op: %+v", again)
	}
	if boardRepo.entries["user-a"].TotalPoints != 1 {
		t.Fatalf("rerun must not double-award: %+v", boardRepo.entries["user-a"])
	}
}

func TestScoreService_ReconcileScores_FailedFetchSkipsOnlyThatGame(t *testing.T) {
	t.Parallel()

	pickRepo := &stubPickRepository{
		picks: []pick.Pick{
			{ID: 1, UserID: "user-a", Week: 7, Season: 2024, PlayerID: "p1", GameID: "g1"},
			{ID: 2, UserID: "user-b", Week: 7, Season: 2024, PlayerID: "p2", GameID: "g2"},
		},
	}
	gameRepo := &stubGameRepository{
		byID: map[string]game.Game{
			"g1": {ID: "g1"},
			"g2": {ID: "g2"},
		},
	}
	boardRepo := &stubBoardRepository{
		entries: map[string]*leaderboard.Entry{
			"user-b": {UserID: "user-b", Week: 7},
		},
	}
	provider := &stubStatsProvider{
		boxErrs: map[string]error{"g1": errors.New("provider status=503")},
		boxScores: map[string]ExternalBoxScore{
			"g2": {
				GameID:     "g2",
				Status:     "Final",
				StatusCode: 2,
				ScoringPlays: []ExternalScoringPlay{
					{ScoreType: "TD", PlayerIDs: []string{"p2"}},
				},
			},
		},
	}

	service := NewScoreService(pickRepo, gameRepo, boardRepo, provider, 0, logging.NewNop())

	got, err := service.ReconcileScores(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileScores error: %v", err)
	}
	if got.GamesFailed != 1 || got.GamesChecked != 1 || got.PicksResolved != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if pickRepo.picks[0].IsSuccessful {
		t.Fatalf("pick for failed game must stay pending")
	}
	if !pickRepo.picks[1].IsSuccessful {
		t.Fatalf("pick for fetched game must resolve")
	}
	if len(gameRepo.statusUpdates) != 1 || gameRepo.statusUpdates[0].gameID != "g2" {
		t.Fatalf("only the fetched game's status may change: %+v", gameRepo.statusUpdates)
	}
}

func TestScoreService_ReconcileScores_ZeroGuardBlocksSecondAward(t *testing.T) {
	t.Parallel()

	pickRepo := &stubPickRepository{
		picks: []pick.Pick{
			{ID: 1, UserID: "user-a", Week: 7, Season: 2024, PlayerID: "p1", GameID: "g1"},
		},
	}
	gameRepo := &stubGameRepository{byID: map[string]game.Game{"g1": {ID: "g1"}}}
	boardRepo := &stubBoardRepository{
		entries: map[string]*leaderboard.Entry{
			// Weekly point already granted through another path.
			"user-a": {UserID: "user-a", Week: 7, PointsWeek: 1, TotalPoints: 3},
		},
	}
	provider := &stubStatsProvider{
		boxScores: map[string]ExternalBoxScore{
			"g1": {
				GameID: "g1",
				Status: "Final",
				ScoringPlays: []ExternalScoringPlay{
					{ScoreType: "td", PlayerIDs: []string{"p1"}},
				},
			},
		},
	}

	service := NewScoreService(pickRepo, gameRepo, boardRepo, provider, 1, logging.NewNop())

	got, err := service.ReconcileScores(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileScores error: %v", err)
	}
	if got.PicksResolved != 1 || got.PointsAwarded != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if boardRepo.entries["user-a"].TotalPoints != 3 {
		t.Fatalf("zero guard must hold: %+v", boardRepo.entries["user-a"])
	}
}

func TestScoreService_ReconcileScores_NoPendingPicks(t *testing.T) {
	t.Parallel()

	service := NewScoreService(&stubPickRepository{}, &stubGameRepository{}, &stubBoardRepository{}, &stubStatsProvider{}, 0, logging.NewNop())

	got, err := service.ReconcileScores(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileScores error: %v", err)
	}
	if got.PicksPending != 0 || got.GamesChecked != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

const (
	scoreTypeTouchdown     = "TD"
	defaultBoxScoreWorkers = 4
	maxBoxScoreWorkers     = 16
)

// ScoreService resolves pending picks against box scores. Box scores are
// fetched once per distinct game; store mutations are guarded so a rerun
// never double-awards.
type ScoreService struct {
	pickRepo   pick.Repository
	gameRepo   game.Repository
	boardRepo  leaderboard.Repository
	provider   StatsProvider
	maxWorkers int
	logger     *logging.Logger
}

func NewScoreService(
	pickRepo pick.Repository,
	gameRepo game.Repository,
	boardRepo leaderboard.Repository,
	provider StatsProvider,
	maxWorkers int,
	logger *logging.Logger,
) *ScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreService{
		pickRepo:   pickRepo,
		gameRepo:   gameRepo,
		boardRepo:  boardRepo,
		provider:   provider,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

type ScoreResult struct {
	PicksPending  int
	GamesChecked  int
	GamesFailed   int
	PicksResolved int
	PointsAwarded int
}

type boxScoreFetch struct {
	gameID string
	box    ExternalBoxScore
	err    error
}

// ReconcileScores fetches one box score per game that still has a pending
// pick, updates game status from it, and marks picks successful when a
// touchdown scoring play lists the picked player. A failed fetch skips only
// that game's picks.
func (s *ScoreService) ReconcileScores(ctx context.Context, season int) (ScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.ReconcileScores")
	defer span.End()

	if season <= 0 {
		return ScoreResult{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	pending, err := s.pickRepo.ListPending(ctx, season)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("list pending picks: %w", err)
	}

	result := ScoreResult{PicksPending: len(pending)}
	if len(pending) == 0 {
		return result, nil
	}

	picksByGame := make(map[string][]pick.Pick, len(pending))
	for _, item := range pending {
		gameID := strings.TrimSpace(item.GameID)
		if gameID == "" {
			s.logger.WarnContext(ctx, "pending pick has no game, skipping", "pick_id", item.ID)
			continue
		}
		picksByGame[gameID] = append(picksByGame[gameID], item)
	}

	gameIDs := make([]string, 0, len(picksByGame))
	for gameID := range picksByGame {
		gameIDs = append(gameIDs, gameID)
	}
	sort.Strings(gameIDs)

	fetches, err := s.fetchBoxScores(ctx, gameIDs)
	if err != nil {
		return result, err
	}

	for _, gameID := range gameIDs {
		fetch := fetches[gameID]
		if fetch.err != nil {
			s.logger.WarnContext(ctx, "box score fetch failed, skipping game's picks",
				"game_id", gameID,
				"error", fetch.err,
			)
			result.GamesFailed++
			continue
		}
		result.GamesChecked++

		status := game.NormalizeStatus(fetch.box.Status)
		if err := s.gameRepo.UpdateStatus(ctx, gameID, status, fetch.box.StatusCode); err != nil {
			return result, fmt.Errorf("update game status game_id=%s: %w", gameID, err)
		}

		scorers := touchdownScorers(fetch.box.ScoringPlays)
		if len(scorers) == 0 {
			continue
		}

		for _, item := range picksByGame[gameID] {
			if _, scored := scorers[item.PlayerID]; !scored {
				continue
			}
			changed, err := s.pickRepo.MarkSuccessful(ctx, item.ID)
			if err != nil {
				return result, fmt.Errorf("resolve pick pick_id=%d: %w", item.ID, err)
			}
			if !changed {
				continue
			}
			result.PicksResolved++

			awarded, err := s.boardRepo.AwardWeeklyPoint(ctx, item.UserID, item.Week, season)
			if err != nil {
				return result, fmt.Errorf("award point user_id=%s week=%d: %w", item.UserID, item.Week, err)
			}
			if awarded {
				result.PointsAwarded++
			} else {
				s.logger.WarnContext(ctx, "weekly point already awarded, leaderboard untouched",
					"user_id", item.UserID,
					"week", item.Week,
				)
			}
		}
	}

	s.logger.InfoContext(ctx, "score reconciliation finished",
		"season", season,
		"picks_pending", result.PicksPending,
		"games_checked", result.GamesChecked,
		"games_failed", result.GamesFailed,
		"picks_resolved", result.PicksResolved,
		"points_awarded", result.PointsAwarded,
	)
	return result, nil
}

func (s *ScoreService) fetchBoxScores(ctx context.Context, gameIDs []string) (map[string]boxScoreFetch, error) {
	workerCount := s.maxWorkers
	if workerCount <= 0 {
		workerCount = defaultBoxScoreWorkers
	}
	if workerCount > maxBoxScoreWorkers {
		workerCount = maxBoxScoreWorkers
	}
	if workerCount > len(gameIDs) {
		workerCount = len(gameIDs)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make(chan boxScoreFetch, len(gameIDs))
	var workers sync.WaitGroup
	for _, gameID := range gameIDs {
		gameID := gameID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			box, fetchErr := s.provider.FetchBoxScore(ctx, gameID)
			results <- boxScoreFetch{gameID: gameID, box: box, err: fetchErr}
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit box score fetch: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make(map[string]boxScoreFetch, len(gameIDs))
	for row := range results {
		out[row.gameID] = row
	}
	return out, nil
}

func touchdownScorers(plays []ExternalScoringPlay) map[string]struct{} {
	scorers := make(map[string]struct{}, len(plays))
	for _, play := range plays {
		if !strings.EqualFold(strings.TrimSpace(play.ScoreType), scoreTypeTouchdown) {
			continue
		}
		for _, playerID := range play.PlayerIDs {
			if playerID = strings.TrimSpace(playerID); playerID != "" {
				scorers[playerID] = struct{}{}
			}
		}
	}
	return scorers
}

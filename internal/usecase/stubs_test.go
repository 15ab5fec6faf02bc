package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	"github.com/tdshowdown/td-showdown/internal/domain/pickwindow"
	"github.com/tdshowdown/td-showdown/internal/domain/player"
)

type gameStatusUpdate struct {
	gameID     string
	status     string
	statusCode int
}

type stubGameRepository struct {
	byID          map[string]game.Game
	inserted      []game.Game
	updated       []game.Game
	statusUpdates []gameStatusUpdate
}

func (s *stubGameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	item, ok := s.byID[gameID]
	return item, ok, nil
}

func (s *stubGameRepository) Insert(_ context.Context, item game.Game) error {
	if s.byID == nil {
		s.byID = make(map[string]game.Game)
	}
	s.byID[item.ID] = item
	s.inserted = append(s.inserted, item)
	return nil
}

func (s *stubGameRepository) Update(_ context.Context, item game.Game) error {
	s.byID[item.ID] = item
	s.updated = append(s.updated, item)
	return nil
}

func (s *stubGameRepository) UpdateStatus(_ context.Context, gameID, status string, statusCode int) error {
	if item, ok := s.byID[gameID]; ok {
		item.Status = status
		item.StatusCode = statusCode
		s.byID[gameID] = item
	}
	s.statusUpdates = append(s.statusUpdates, gameStatusUpdate{gameID: gameID, status: status, statusCode: statusCode})
	return nil
}

type stubPlayerRepository struct {
	byID     map[string]player.Player
	inserted []player.Player
	updated  []player.Player
}

func (s *stubPlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	item, ok := s.byID[playerID]
	return item, ok, nil
}

func (s *stubPlayerRepository) Insert(_ context.Context, item player.Player) error {
	if s.byID == nil {
		s.byID = make(map[string]player.Player)
	}
	s.byID[item.ID] = item
	s.inserted = append(s.inserted, item)
	return nil
}

func (s *stubPlayerRepository) Update(_ context.Context, item player.Player) error {
	s.byID[item.ID] = item
	s.updated = append(s.updated, item)
	return nil
}

type stubPickRepository struct {
	picks   []pick.Pick
	deleted []int64
}

func (s *stubPickRepository) ListPending(_ context.Context, season int) ([]pick.Pick, error) {
	out := make([]pick.Pick, 0, len(s.picks))
	for _, item := range s.picks {
		if item.Season == season && !item.IsSuccessful {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepository) ListUnresolvedByPlayer(_ context.Context, playerID string) ([]pick.Pick, error) {
	out := make([]pick.Pick, 0, len(s.picks))
	for _, item := range s.picks {
		if item.PlayerID == playerID && !item.IsSuccessful {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepository) ListUnresolvedPlayerIDs(_ context.Context, season int) ([]string, error) {
	seen := make(map[string]struct{}, len(s.picks))
	out := make([]string, 0, len(s.picks))
	for _, item := range s.picks {
		if item.Season != season || item.IsSuccessful {
			continue
		}
		if _, ok := seen[item.PlayerID]; ok {
			continue
		}
		seen[item.PlayerID] = struct{}{}
		out = append(out, item.PlayerID)
	}
	return out, nil
}

func (s *stubPickRepository) MarkSuccessful(_ context.Context, pickID int64) (bool, error) {
	for i := range s.picks {
		if s.picks[i].ID != pickID {
			continue
		}
		if s.picks[i].IsSuccessful {
			return false, nil
		}
		s.picks[i].IsSuccessful = true
		return true, nil
	}
	return false, nil
}

func (s *stubPickRepository) MarkInjured(_ context.Context, pickID int64) (bool, error) {
	for i := range s.picks {
		if s.picks[i].ID != pickID {
			continue
		}
		if s.picks[i].IsSuccessful || s.picks[i].IsInjured {
			return false, nil
		}
		s.picks[i].IsInjured = true
		return true, nil
	}
	return false, nil
}

func (s *stubPickRepository) DeleteUnresolved(_ context.Context, pickID int64) (bool, error) {
	for i := range s.picks {
		if s.picks[i].ID != pickID {
			continue
		}
		if s.picks[i].IsSuccessful {
			return false, nil
		}
		s.picks = append(s.picks[:i], s.picks[i+1:]...)
		s.deleted = append(s.deleted, pickID)
		return true, nil
	}
	return false, nil
}

type stubWindowRepository struct {
	existing map[string]struct{}
	created  []pickwindow.Window
}

func windowKey(item pickwindow.Window) string {
	return fmt.Sprintf("%d:%d:%d", item.Week, item.Season, item.StartTime.Unix())
}

func (s *stubWindowRepository) EnsureExists(_ context.Context, item pickwindow.Window) (bool, error) {
	if s.existing == nil {
		s.existing = make(map[string]struct{})
	}
	key := windowKey(item)
	if _, ok := s.existing[key]; ok {
		return false, nil
	}
	s.existing[key] = struct{}{}
	s.created = append(s.created, item)
	return true, nil
}

type stubBoardRepository struct {
	entries map[string]*leaderboard.Entry
	weekly  []leaderboard.WeeklyRow
	overall []leaderboard.OverallRow
	awards  []string
}

func (s *stubBoardRepository) AwardWeeklyPoint(_ context.Context, userID string, week, season int) (bool, error) {
	s.awards = append(s.awards, fmt.Sprintf("%s:%d:%d", userID, week, season))
	entry, ok := s.entries[userID]
	if !ok || entry.Week != week || entry.PointsWeek != 0 {
		return false, nil
	}
	entry.PointsWeek++
	entry.TotalPoints++
	return true, nil
}

func (s *stubBoardRepository) ListWeeklyResults(_ context.Context, _, _ int) ([]leaderboard.WeeklyRow, error) {
	return s.weekly, nil
}

func (s *stubBoardRepository) ListOverall(_ context.Context, _ int) ([]leaderboard.OverallRow, error) {
	return s.overall, nil
}

type stubStatsProvider struct {
	games      []ExternalGame
	gamesErr   error
	players    []ExternalPlayer
	playersErr error
	teams      []ExternalTeam
	teamsErr   error
	boxScores  map[string]ExternalBoxScore
	boxErrs    map[string]error

	mu       sync.Mutex
	boxCalls []string
}

func (s *stubStatsProvider) FetchSeasonSchedule(_ context.Context, _ int) ([]ExternalGame, error) {
	return s.games, s.gamesErr
}

func (s *stubStatsProvider) FetchPlayerList(_ context.Context) ([]ExternalPlayer, error) {
	return s.players, s.playersErr
}

func (s *stubStatsProvider) FetchTeams(_ context.Context) ([]ExternalTeam, error) {
	return s.teams, s.teamsErr
}

func (s *stubStatsProvider) FetchBoxScore(_ context.Context, gameID string) (ExternalBoxScore, error) {
	s.mu.Lock()
	s.boxCalls = append(s.boxCalls, gameID)
	s.mu.Unlock()
	if err, ok := s.boxErrs[gameID]; ok {
		return ExternalBoxScore{}, err
	}
	return s.boxScores[gameID], nil
}

type stubNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *stubNotifier) Send(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, message)
	return nil
}

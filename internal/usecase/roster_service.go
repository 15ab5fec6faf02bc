package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	"github.com/tdshowdown/td-showdown/internal/domain/player"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

// RosterService keeps the player pool in sync with the feed and flags picks
// whose player entered a threatening injury designation.
type RosterService struct {
	playerRepo player.Repository
	pickRepo   pick.Repository
	provider   StatsProvider
	notifier   Notifier
	logger     *logging.Logger
}

func NewRosterService(
	playerRepo player.Repository,
	pickRepo pick.Repository,
	provider StatsProvider,
	notifier Notifier,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		playerRepo: playerRepo,
		pickRepo:   pickRepo,
		provider:   provider,
		notifier:   notifier,
		logger:     logger,
	}
}

type RosterResult struct {
	Inserted      int
	Updated       int
	Unchanged     int
	Skipped       int
	PicksFlagged  int
	UsersNotified int
}

// ReconcilePlayers fetches the player list and team bye weeks concurrently,
// upserts players only when a field changed, and soft-flags unresolved picks
// of players whose designation threatens availability.
func (s *RosterService) ReconcilePlayers(ctx context.Context, season int) (RosterResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ReconcilePlayers")
	defer span.End()

	if season <= 0 {
		return RosterResult{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	var feedPlayers []ExternalPlayer
	var feedTeams []ExternalTeam

	fetchers := pool.New().WithContext(ctx)
	fetchers.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchPlayerList(ctx)
		if err != nil {
			return fmt.Errorf("fetch player list: %w", err)
		}
		feedPlayers = items
		return nil
	})
	fetchers.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchTeams(ctx)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		feedTeams = items
		return nil
	})
	if err := fetchers.Wait(); err != nil {
		return RosterResult{}, err
	}

	byeWeekByTeamID := make(map[string]int, len(feedTeams))
	for _, team := range feedTeams {
		if bye, ok := team.ByeWeekBySeason[season]; ok && strings.TrimSpace(team.TeamID) != "" {
			byeWeekByTeamID[team.TeamID] = bye
		}
	}

	result := RosterResult{}
	flagged := make([]player.Player, 0, 8)
	for _, item := range feedPlayers {
		playerID := strings.TrimSpace(item.PlayerID)
		if playerID == "" {
			result.Skipped++
			continue
		}

		candidate := player.Player{
			ID:           playerID,
			Name:         strings.TrimSpace(item.Name),
			TeamAbv:      strings.TrimSpace(item.Team),
			TeamID:       strings.TrimSpace(item.TeamID),
			Position:     strings.TrimSpace(item.Position),
			IsFreeAgent:  item.IsFreeAgent,
			InjuryStatus: player.ParseDesignation(item.InjuryDesignation),
			HeadshotURL:  strings.TrimSpace(item.HeadshotURL),
		}

		existing, found, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return result, fmt.Errorf("get player player_id=%s: %w", playerID, err)
		}

		if bye, ok := byeWeekByTeamID[candidate.TeamID]; ok {
			bye := bye
			candidate.ByeWeek = &bye
		} else if found {
			candidate.ByeWeek = existing.ByeWeek
		}

		if found {
			if existing.FieldsEqual(candidate) {
				result.Unchanged++
			} else {
				if err := s.playerRepo.Update(ctx, candidate); err != nil {
					return result, fmt.Errorf("update player player_id=%s: %w", playerID, err)
				}
				result.Updated++
			}
		} else {
			if err := s.playerRepo.Insert(ctx, candidate); err != nil {
				return result, fmt.Errorf("insert player player_id=%s: %w", playerID, err)
			}
			result.Inserted++
		}

		if candidate.InjuryStatus.ThreatensPicks() {
			flagged = append(flagged, candidate)
		}
	}

	affectedByPlayer := make(map[string][]string, len(flagged))
	affectedUsers := make(map[string]struct{}, 8)
	for _, item := range flagged {
		picks, err := s.pickRepo.ListUnresolvedByPlayer(ctx, item.ID)
		if err != nil {
			return result, fmt.Errorf("list picks player_id=%s: %w", item.ID, err)
		}
		for _, p := range picks {
			changed, err := s.pickRepo.MarkInjured(ctx, p.ID)
			if err != nil {
				return result, fmt.Errorf("flag pick pick_id=%d: %w", p.ID, err)
			}
			if !changed {
				continue
			}
			result.PicksFlagged++
			affectedByPlayer[item.ID] = append(affectedByPlayer[item.ID], p.UserID)
			affectedUsers[p.UserID] = struct{}{}
		}
	}
	result.UsersNotified = len(affectedUsers)

	if len(affectedUsers) > 0 {
		s.notify(ctx, buildInjuryWatchMessage(flagged, affectedByPlayer))
	}

	s.logger.InfoContext(ctx, "roster reconciliation finished",
		"season", season,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"picks_flagged", result.PicksFlagged,
		"users_notified", result.UsersNotified,
	)
	return result, nil
}

func (s *RosterService) notify(ctx context.Context, message string) {
	if s.notifier == nil || strings.TrimSpace(message) == "" {
		return
	}
	if err := s.notifier.Send(ctx, message); err != nil {
		s.logger.WarnContext(ctx, "injury notification delivery failed", "error", err)
	}
}

func buildInjuryWatchMessage(flagged []player.Player, affectedByPlayer map[string][]string) string {
	lines := make([]string, 0, len(flagged)+1)
	lines = append(lines, "**Injury watch**")
	for _, item := range flagged {
		userIDs := affectedByPlayer[item.ID]
		if len(userIDs) == 0 {
			continue
		}
		sort.Strings(userIDs)
		mentions := make([]string, 0, len(userIDs))
		for _, userID := range userIDs {
			mentions = append(mentions, "<@"+userID+">")
		}
		lines = append(lines, fmt.Sprintf("- %s is now %s. Affected picks: %s",
			item.Name, item.InjuryStatus, strings.Join(mentions, ", ")))
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

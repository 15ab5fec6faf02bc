package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	"github.com/tdshowdown/td-showdown/internal/domain/player"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

// InjuryPolicy selects how the gate treats picks of unavailable players.
type InjuryPolicy string

const (
	// InjuryPolicyFlag marks picks of Doubtful/Out/Injured Reserve players
	// without removing them.
	InjuryPolicyFlag InjuryPolicy = "flag"
	// InjuryPolicyRemove deletes picks of Out/Injured Reserve players so
	// owners can re-pick before kickoff.
	InjuryPolicyRemove InjuryPolicy = "remove"
)

func ParseInjuryPolicy(value string) (InjuryPolicy, error) {
	switch InjuryPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case InjuryPolicyFlag:
		return InjuryPolicyFlag, nil
	case InjuryPolicyRemove:
		return InjuryPolicyRemove, nil
	default:
		return "", fmt.Errorf("%w: unknown injury policy %q", ErrInvalidInput, value)
	}
}

// InjuryService is the pre-kickoff gate over unresolved picks.
type InjuryService struct {
	playerRepo player.Repository
	pickRepo   pick.Repository
	notifier   Notifier
	logger     *logging.Logger
}

func NewInjuryService(
	playerRepo player.Repository,
	pickRepo pick.Repository,
	notifier Notifier,
	logger *logging.Logger,
) *InjuryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &InjuryService{
		playerRepo: playerRepo,
		pickRepo:   pickRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

type InjuryGateResult struct {
	PlayersChecked int
	PicksFlagged   int
	PicksRemoved   int
	UsersNotified  int
}

// EnforceGate walks every player that still has an unresolved pick and
// applies the configured policy. Reruns are no-ops: flagged picks stay
// flagged, removed picks stay gone.
func (s *InjuryService) EnforceGate(ctx context.Context, season int, policy InjuryPolicy) (InjuryGateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InjuryService.EnforceGate")
	defer span.End()

	if season <= 0 {
		return InjuryGateResult{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	if policy != InjuryPolicyFlag && policy != InjuryPolicyRemove {
		return InjuryGateResult{}, fmt.Errorf("%w: unknown injury policy %q", ErrInvalidInput, policy)
	}

	playerIDs, err := s.pickRepo.ListUnresolvedPlayerIDs(ctx, season)
	if err != nil {
		return InjuryGateResult{}, fmt.Errorf("list unresolved player ids: %w", err)
	}

	result := InjuryGateResult{}
	affected := make(map[string][]string, 4)
	affectedUsers := make(map[string]struct{}, 8)
	unavailable := make([]player.Player, 0, 4)

	for _, playerID := range playerIDs {
		item, found, err := s.playerRepo.GetByID(ctx, playerID)
		if err != nil {
			return result, fmt.Errorf("get player player_id=%s: %w", playerID, err)
		}
		if !found {
			s.logger.WarnContext(ctx, "pick references unknown player", "player_id", playerID)
			continue
		}
		result.PlayersChecked++

		switch policy {
		case InjuryPolicyFlag:
			if !item.InjuryStatus.ThreatensPicks() {
				continue
			}
		case InjuryPolicyRemove:
			if !item.InjuryStatus.RulesOut() {
				continue
			}
		}

		picks, err := s.pickRepo.ListUnresolvedByPlayer(ctx, playerID)
		if err != nil {
			return result, fmt.Errorf("list picks player_id=%s: %w", playerID, err)
		}

		touched := false
		for _, p := range picks {
			var changed bool
			switch policy {
			case InjuryPolicyFlag:
				changed, err = s.pickRepo.MarkInjured(ctx, p.ID)
				if err != nil {
					return result, fmt.Errorf("flag pick pick_id=%d: %w", p.ID, err)
				}
				if changed {
					result.PicksFlagged++
				}
			case InjuryPolicyRemove:
				changed, err = s.pickRepo.DeleteUnresolved(ctx, p.ID)
				if err != nil {
					return result, fmt.Errorf("remove pick pick_id=%d: %w", p.ID, err)
				}
				if changed {
					result.PicksRemoved++
				}
			}
			if changed {
				touched = true
				affected[playerID] = append(affected[playerID], p.UserID)
				affectedUsers[p.UserID] = struct{}{}
			}
		}
		if touched {
			unavailable = append(unavailable, item)
		}
	}
	result.UsersNotified = len(affectedUsers)

	if len(affectedUsers) > 0 {
		message := buildInjuryGateMessage(policy, unavailable, affected)
		if err := s.notifier.Send(ctx, message); err != nil {
			s.logger.WarnContext(ctx, "injury gate notification delivery failed", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "injury gate finished",
		"season", season,
		"policy", string(policy),
		"players_checked", result.PlayersChecked,
		"picks_flagged", result.PicksFlagged,
		"picks_removed", result.PicksRemoved,
		"users_notified", result.UsersNotified,
	)
	return result, nil
}

func buildInjuryGateMessage(policy InjuryPolicy, players []player.Player, affected map[string][]string) string {
	header := "**Injury watch**"
	action := "has been flagged"
	if policy == InjuryPolicyRemove {
		header = "**Picks removed**"
		action = "has been removed. Submit a new pick before kickoff"
	}

	lines := make([]string, 0, len(players)+1)
	lines = append(lines, header)
	for _, item := range players {
		userIDs := affected[item.ID]
		sort.Strings(userIDs)
		mentions := make([]string, 0, len(userIDs))
		for _, userID := range userIDs {
			mentions = append(mentions, "<@"+userID+">")
		}
		lines = append(lines, fmt.Sprintf("- %s is %s. Your pick %s: %s",
			item.Name, item.InjuryStatus, action, strings.Join(mentions, ", ")))
	}
	return strings.Join(lines, "\n")
}

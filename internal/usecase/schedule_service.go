package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/domain/pickwindow"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

const (
	providerDateLayout  = "20060102"
	providerClockLayout = "3:04PM"
)

// ScheduleService reconciles the stored schedule for the whole season
// against the provider feed and ensures a pick window exists per kickoff.
type ScheduleService struct {
	gameRepo   game.Repository
	windowRepo pickwindow.Repository
	provider   StatsProvider
	schedule   game.WeekSchedule
	sourceTZ   *time.Location
	targetTZ   *time.Location
	logger     *logging.Logger
}

func NewScheduleService(
	gameRepo game.Repository,
	windowRepo pickwindow.Repository,
	provider StatsProvider,
	schedule game.WeekSchedule,
	sourceTZ *time.Location,
	targetTZ *time.Location,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		gameRepo:   gameRepo,
		windowRepo: windowRepo,
		provider:   provider,
		schedule:   schedule,
		sourceTZ:   sourceTZ,
		targetTZ:   targetTZ,
		logger:     logger,
	}
}

type ScheduleResult struct {
	Inserted       int
	Updated        int
	Unchanged      int
	Skipped        int
	WindowsCreated int
}

// ReconcileSeason fetches every game the feed reports for the season,
// derives each game's week from its calendar date via the configured week
// table, and upserts rows only when a tracked field actually changed. Games
// in future weeks are reconciled on every run, so their pick windows exist
// well before kickoff.
func (s *ScheduleService) ReconcileSeason(ctx context.Context, season int) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ReconcileSeason")
	defer span.End()

	if season <= 0 {
		return ScheduleResult{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	items, err := s.provider.FetchSeasonSchedule(ctx, season)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("fetch season schedule season=%d: %w", season, err)
	}

	result := ScheduleResult{}
	for _, item := range items {
		gameID := strings.TrimSpace(item.GameID)
		if gameID == "" {
			result.Skipped++
			continue
		}

		gameDate, parseErr := time.ParseInLocation(providerDateLayout, strings.TrimSpace(item.GameDate), s.sourceTZ)
		if parseErr != nil {
			s.logger.WarnContext(ctx, "unparsable game date, skipping",
				"game_id", gameID,
				"game_date", item.GameDate,
			)
			result.Skipped++
			continue
		}
		gameWeek, found := s.schedule.DetermineWeek(gameDate)
		if !found {
			s.logger.WarnContext(ctx, "game date precedes the configured week table, skipping",
				"game_id", gameID,
				"game_date", item.GameDate,
			)
			result.Skipped++
			continue
		}

		kickoff := s.convertKickoff(ctx, gameID, item.GameDate, item.GameTime)

		candidate := game.Game{
			ID:          gameID,
			SeasonType:  strings.TrimSpace(item.SeasonType),
			Week:        gameWeek,
			Season:      season,
			HomeTeam:    strings.TrimSpace(item.HomeTeam),
			AwayTeam:    strings.TrimSpace(item.AwayTeam),
			HomeTeamID:  strings.TrimSpace(item.HomeTeamID),
			AwayTeamID:  strings.TrimSpace(item.AwayTeamID),
			GameTime:    kickoff,
			NeutralSite: item.NeutralSite,
			ESPNLink:    strings.TrimSpace(item.ESPNLink),
			CBSLink:     strings.TrimSpace(item.CBSLink),
		}

		existing, found, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return result, fmt.Errorf("get game game_id=%s: %w", gameID, err)
		}
		if found {
			// Status is owned by the score pass.
			candidate.Status = existing.Status
			candidate.StatusCode = existing.StatusCode
			if existing.FieldsEqual(candidate) {
				result.Unchanged++
			} else {
				if err := s.gameRepo.Update(ctx, candidate); err != nil {
					return result, fmt.Errorf("update game game_id=%s: %w", gameID, err)
				}
				result.Updated++
			}
		} else {
			candidate.Status = game.StatusScheduled
			if err := s.gameRepo.Insert(ctx, candidate); err != nil {
				return result, fmt.Errorf("insert game game_id=%s: %w", gameID, err)
			}
			result.Inserted++
		}

		if kickoff != nil {
			created, err := s.windowRepo.EnsureExists(ctx, pickwindow.FromKickoff(gameWeek, season, *kickoff))
			if err != nil {
				return result, fmt.Errorf("ensure pick window game_id=%s: %w", gameID, err)
			}
			if created {
				result.WindowsCreated++
			}
		}
	}

	s.logger.InfoContext(ctx, "schedule reconciliation finished",
		"season", season,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"windows_created", result.WindowsCreated,
	)
	return result, nil
}

// convertKickoff combines the provider date and clock, interprets them in the
// source timezone, and converts to the target timezone. An absent, "TBD", or
// unparsable clock yields nil rather than a guessed default.
func (s *ScheduleService) convertKickoff(ctx context.Context, gameID, gameDate, gameTime string) *time.Time {
	clock := strings.TrimSpace(gameTime)
	if clock == "" || strings.EqualFold(clock, "TBD") {
		return nil
	}

	clock = strings.NewReplacer("a", "AM", "p", "PM").Replace(clock)
	parsed, err := time.ParseInLocation(providerDateLayout+" "+providerClockLayout, strings.TrimSpace(gameDate)+" "+clock, s.sourceTZ)
	if err != nil {
		s.logger.WarnContext(ctx, "unparsable kickoff time, storing game without one",
			"game_id", gameID,
			"game_date", gameDate,
			"game_time", gameTime,
		)
		return nil
	}

	converted := parsed.In(s.targetTZ).Truncate(time.Minute)
	return &converted
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/tdshowdown/td-showdown/internal/domain/game"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func testWeekSchedule() game.WeekSchedule {
	return game.NewWeekSchedule(map[int]time.Time{
		7: time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC),
		8: time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC),
	})
}

func newScheduleServiceForTest(t *testing.T, gameRepo *stubGameRepository, windowRepo *stubWindowRepository, provider *stubStatsProvider) *ScheduleService {
	t.Helper()
	return NewScheduleService(
		gameRepo,
		windowRepo,
		provider,
		testWeekSchedule(),
		mustLoadLocation(t, "America/New_York"),
		mustLoadLocation(t, "Europe/Dublin"),
		logging.NewNop(),
	)
}

func TestScheduleService_ReconcileSeason_InsertsAndConvertsKickoff(t *testing.T) {
	t.Parallel()

	gameRepo := &stubGameRepository{}
	windowRepo := &stubWindowRepository{}
	provider := &stubStatsProvider{
		games: []ExternalGame{
			{
				GameID:     "20241020_KC@SF",
				SeasonType: "Regular Season",
				HomeTeam:   "SF",
				AwayTeam:   "KC",
				HomeTeamID: "28",
				AwayTeamID: "16",
				GameDate:   "20241020",
				GameTime:   "1:00p",
			},
		},
	}

	service := newScheduleServiceForTest(t, gameRepo, windowRepo, provider)

	got, err := service.ReconcileSeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileSeason error: %v", err)
	}
	if got.Inserted != 1 || got.Updated != 0 || got.WindowsCreated != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}

	stored, ok := gameRepo.byID["20241020_KC@SF"]
	if !ok {
		t.Fatalf("expected game to be stored")
	}
	if stored.Week != 7 || stored.Status != game.StatusScheduled {
		t.Fatalf("unexpected stored game: %+v", stored)
	}
	if stored.GameTime == nil {
		t.Fatalf("expected converted kickoff time")
	}

	// 1:00 PM Eastern on 2024-10-20 is 6:00 PM in Dublin.
	dublin := mustLoadLocation(t, "Europe/Dublin")
	want := time.Date(2024, 10, 20, 18, 0, 0, 0, dublin)
	if !stored.GameTime.Equal(want) {
		t.Fatalf("kickoff = %s, want %s", stored.GameTime, want)
	}

	if len(windowRepo.created) != 1 {
		t.Fatalf("expected 1 pick window, got %d", len(windowRepo.created))
	}
	window := windowRepo.created[0]
	if window.Week != 7 || window.DayName != "Sunday" || window.IsOpen {
		t.Fatalf("unexpected window: %+v", window)
	}
}

func TestScheduleService_ReconcileSeason_CoversFutureWeeks(t *testing.T) {
	t.Parallel()

	gameRepo := &stubGameRepository{}
	windowRepo := &stubWindowRepository{}
	provider := &stubStatsProvider{
		games: []ExternalGame{
			{GameID: "20241020_KC@SF", GameDate: "20241020", GameTime: "1:00p"},
			{GameID: "20241027_GB@JAX", GameDate: "20241027", GameTime: "1:00p"},
		},
	}

	service := newScheduleServiceForTest(t, gameRepo, windowRepo, provider)

	got, err := service.ReconcileSeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileSeason error: %v", err)
	}
	if got.Inserted != 2 || got.WindowsCreated != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if stored := gameRepo.byID["20241020_KC@SF"]; stored.Week != 7 {
		t.Fatalf("week 7 game stored as week %d", stored.Week)
	}
	if stored := gameRepo.byID["20241027_GB@JAX"]; stored.Week != 8 {
		t.Fatalf("week 8 game stored as week %d", stored.Week)
	}

	weeks := map[int]bool{}
	for _, window := range windowRepo.created {
		weeks[window.Week] = true
	}
	if !weeks[7] || !weeks[8] {
		t.Fatalf("expected pick windows for weeks 7 and 8, got %+v", windowRepo.created)
	}
}

func TestScheduleService_ReconcileSeason_TBDStoresNoKickoff(t *testing.T) {
	t.Parallel()

	gameRepo := &stubGameRepository{}
	windowRepo := &stubWindowRepository{}
	provider := &stubStatsProvider{
		games: []ExternalGame{
			{GameID: "20241020_BUF@NYJ", GameDate: "20241020", GameTime: "TBD"},
			{GameID: "20241021_DAL@PHI", GameDate: "20241021", GameTime: "not a clock"},
		},
	}

	service := newScheduleServiceForTest(t, gameRepo, windowRepo, provider)

	got, err := service.ReconcileSeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileSeason error: %v", err)
	}
	if got.Inserted != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}

	for _, gameID := range []string{"20241020_BUF@NYJ", "20241021_DAL@PHI"} {
		if stored := gameRepo.byID[gameID]; stored.GameTime != nil {
			t.Fatalf("game %s: expected nil kickoff, got %s", gameID, stored.GameTime)
		}
	}
	if len(windowRepo.created) != 0 {
		t.Fatalf("expected no pick windows, got %d", len(windowRepo.created))
	}
}

func TestScheduleService_ReconcileSeason_UnchangedRowNotRewritten(t *testing.T) {
	t.Parallel()

	dublin := mustLoadLocation(t, "Europe/Dublin")
	kickoff := time.Date(2024, 10, 20, 18, 0, 0, 0, dublin)
	existing := game.Game{
		ID:         "20241020_KC@SF",
		SeasonType: "Regular Season",
		Week:       7,
		Season:     2024,
		HomeTeam:   "SF",
		AwayTeam:   "KC",
		HomeTeamID: "28",
		AwayTeamID: "16",
		GameTime:   &kickoff,
		Status:     game.StatusScheduled,
	}

	gameRepo := &stubGameRepository{byID: map[string]game.Game{existing.ID: existing}}
	windowRepo := &stubWindowRepository{}
	provider := &stubStatsProvider{
		games: []ExternalGame{
			{
				GameID:     "20241020_KC@SF",
				SeasonType: "Regular Season",
				HomeTeam:   "SF",
				AwayTeam:   "KC",
				HomeTeamID: "28",
				AwayTeamID: "16",
				GameDate:   "20241020",
				GameTime:   "1:00p",
			},
		},
	}

	service := newScheduleServiceForTest(t, gameRepo, windowRepo, provider)

	got, err := service.ReconcileSeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileSeason error: %v", err)
	}
	if got.Unchanged != 1 || got.Updated != 0 || got.Inserted != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(gameRepo.updated) != 0 {
		t.Fatalf("expected no updates, got %d", len(gameRepo.updated))
	}
}

func TestScheduleService_ReconcileSeason_SkipsMalformedAndUnmappedDates(t *testing.T) {
	t.Parallel()

	gameRepo := &stubGameRepository{}
	windowRepo := &stubWindowRepository{}
	provider := &stubStatsProvider{
		games: []ExternalGame{
			{GameID: "20240901_MIA@NE", GameDate: "20240901", GameTime: "1:00p"},
			{GameID: "bad-date_CHI@DET", GameDate: "late October", GameTime: "1:00p"},
			{GameID: "20241020_KC@SF", GameDate: "20241020", GameTime: "1:00p"},
		},
	}

	service := newScheduleServiceForTest(t, gameRepo, windowRepo, provider)

	got, err := service.ReconcileSeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("ReconcileSeason error: %v", err)
	}
	if got.Skipped != 2 || got.Inserted != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if _, ok := gameRepo.byID["bad-date_CHI@DET"]; ok {
		t.Fatalf("malformed date must not be stored")
	}
	if _, ok := gameRepo.byID["20240901_MIA@NE"]; ok {
		t.Fatalf("date before the week table must not be stored")
	}
}

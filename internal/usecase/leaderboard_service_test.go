package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

func TestLeaderboardService_Publish_FormatsFixedWidthTables(t *testing.T) {
	t.Parallel()

	boardRepo := &stubBoardRepository{
		weekly: []leaderboard.WeeklyRow{
			{Week: 7, PlayerName: "Christian McCaffrey", Successful: true, Points: 1},
			{Week: 7, PlayerName: "Brock Purdy", Successful: false, Points: 0},
		},
		overall: []leaderboard.OverallRow{
			{Username: "alice", TotalPoints: 5},
			{Username: "bob", TotalPoints: 3},
		},
	}
	notifier := &stubNotifier{}
	service := NewLeaderboardService(boardRepo, notifier, logging.NewNop())

	if err := service.Publish(context.Background(), 7, 2024); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(notifier.messages))
	}

	weekly := notifier.messages[0]
	if !strings.HasPrefix(weekly, "**Week 7 results**\n```\n") || !strings.HasSuffix(weekly, "```") {
		t.Fatalf("weekly table must be a fenced code block: %q", weekly)
	}
	if !strings.Contains(weekly, "Christian McCaffrey  Y   1") {
		t.Fatalf("unexpected weekly row formatting: %q", weekly)
	}
	if !strings.Contains(weekly, "Brock Purdy          -   0") {
		t.Fatalf("weekly rows must be padded to a shared width: %q", weekly)
	}

	overall := notifier.messages[1]
	if !strings.Contains(overall, "**Season 2024 standings**") {
		t.Fatalf("unexpected overall header: %q", overall)
	}
	aliceIdx := strings.Index(overall, "alice")
	bobIdx := strings.Index(overall, "bob")
	if aliceIdx < 0 || bobIdx < 0 || aliceIdx > bobIdx {
		t.Fatalf("standings must keep repository order: %q", overall)
	}
	if !strings.Contains(overall, "1     alice") {
		t.Fatalf("unexpected rank formatting: %q", overall)
	}
}

func TestLeaderboardService_Publish_ToleratesEmptySets(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	service := NewLeaderboardService(&stubBoardRepository{}, notifier, logging.NewNop())

	if err := service.Publish(context.Background(), 7, 2024); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(notifier.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "No picks recorded yet.") {
		t.Fatalf("unexpected empty weekly message: %q", notifier.messages[0])
	}
	if !strings.Contains(notifier.messages[1], "No points on the board yet.") {
		t.Fatalf("unexpected empty standings message: %q", notifier.messages[1])
	}
}

func TestLeaderboardService_Publish_RejectsInvalidWeek(t *testing.T) {
	t.Parallel()

	service := NewLeaderboardService(&stubBoardRepository{}, &stubNotifier{}, logging.NewNop())
	if err := service.Publish(context.Background(), 0, 2024); err == nil {
		t.Fatalf("expected error for week 0")
	}
}

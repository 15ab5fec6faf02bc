package leaderboard

import "context"

type Repository interface {
	// AwardWeeklyPoint increments points_week and total_points for the
	// user's row, but only while points_week is still zero for that week.
	// Returns true when a row was updated.
	AwardWeeklyPoint(ctx context.Context, userID string, week, season int) (bool, error)

	// ListWeeklyResults returns every pick for the week joined with the
	// player's name, ordered with successful picks first.
	ListWeeklyResults(ctx context.Context, week, season int) ([]WeeklyRow, error)

	// ListOverall returns season standings joined with usernames, ordered
	// by total points descending.
	ListOverall(ctx context.Context, season int) ([]OverallRow, error)
}

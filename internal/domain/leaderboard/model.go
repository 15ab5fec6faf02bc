package leaderboard

import "time"

// Entry is one user's standing row for a season.
type Entry struct {
	UserID      string
	Season      int
	Week        int
	PointsWeek  int
	TotalPoints int
	LastUpdated time.Time
}

// WeeklyRow is a published line of the weekly results table.
type WeeklyRow struct {
	Week       int
	PlayerName string
	Successful bool
	Points     int
}

// OverallRow is a published line of the season standings table.
type OverallRow struct {
	Username    string
	TotalPoints int
}

package postgres

import (
	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
)

type weeklyResultRowModel struct {
	Week         int    `db:"week"`
	PlayerName   string `db:"player_name"`
	IsSuccessful bool   `db:"is_successful"`
}

func (m weeklyResultRowModel) toDomain() leaderboard.WeeklyRow {
	points := 0
	if m.IsSuccessful {
		points = 1
	}
	return leaderboard.WeeklyRow{
		Week:       m.Week,
		PlayerName: m.PlayerName,
		Successful: m.IsSuccessful,
		Points:     points,
	}
}

type overallRowModel struct {
	Username    string `db:"username"`
	TotalPoints int    `db:"total_points"`
}

func (m overallRowModel) toDomain() leaderboard.OverallRow {
	return leaderboard.OverallRow{
		Username:    m.Username,
		TotalPoints: m.TotalPoints,
	}
}

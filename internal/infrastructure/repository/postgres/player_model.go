package postgres

import (
	"database/sql"
	"time"

	"github.com/tdshowdown/td-showdown/internal/domain/player"
)

type playerTableModel struct {
	ID          string        `db:"player_id"`
	Name        string        `db:"player_name"`
	TeamAbv     string        `db:"team_abv"`
	TeamID      string        `db:"team_id"`
	Position    string        `db:"position"`
	IsFreeAgent bool          `db:"is_free_agent"`
	Injury      string        `db:"injury_status"`
	ByeWeek     sql.NullInt64 `db:"bye_week"`
	HeadshotURL string        `db:"headshot_url"`
	LastUpdated time.Time     `db:"last_updated"`
}

func (m playerTableModel) toDomain() player.Player {
	var byeWeek *int
	if m.ByeWeek.Valid {
		value := int(m.ByeWeek.Int64)
		byeWeek = &value
	}
	return player.Player{
		ID:           m.ID,
		Name:         m.Name,
		TeamAbv:      m.TeamAbv,
		TeamID:       m.TeamID,
		Position:     m.Position,
		IsFreeAgent:  m.IsFreeAgent,
		InjuryStatus: player.ParseDesignation(m.Injury),
		ByeWeek:      byeWeek,
		HeadshotURL:  m.HeadshotURL,
		LastUpdated:  m.LastUpdated,
	}
}

func byeWeekToNullInt64(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

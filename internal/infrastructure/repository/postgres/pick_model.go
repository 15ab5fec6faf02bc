package postgres

import (
	"time"

	"github.com/tdshowdown/td-showdown/internal/domain/pick"
)

type pickTableModel struct {
	ID           int64     `db:"id"`
	UserID       string    `db:"user_id"`
	Week         int       `db:"week"`
	Season       int       `db:"season"`
	PlayerID     string    `db:"player_id"`
	GameID       string    `db:"game_id"`
	IsSuccessful bool      `db:"is_successful"`
	IsInjured    bool      `db:"is_injured"`
	LastUpdated  time.Time `db:"last_updated"`
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:           m.ID,
		UserID:       m.UserID,
		Week:         m.Week,
		Season:       m.Season,
		PlayerID:     m.PlayerID,
		GameID:       m.GameID,
		IsSuccessful: m.IsSuccessful,
		IsInjured:    m.IsInjured,
		LastUpdated:  m.LastUpdated,
	}
}

package postgres

import (
	"database/sql"
	"time"

	"github.com/tdshowdown/td-showdown/internal/domain/game"
)

type gameTableModel struct {
	ID          string       `db:"game_id"`
	SeasonType  string       `db:"season_type"`
	Week        int          `db:"week"`
	Season      int          `db:"season"`
	HomeTeam    string       `db:"home_team"`
	AwayTeam    string       `db:"away_team"`
	HomeTeamID  string       `db:"home_team_id"`
	AwayTeamID  string       `db:"away_team_id"`
	GameTime    sql.NullTime `db:"game_time"`
	Status      string       `db:"game_status"`
	StatusCode  int          `db:"game_status_code"`
	NeutralSite bool         `db:"neutral_site"`
	ESPNLink    string       `db:"espn_link"`
	CBSLink     string       `db:"cbs_link"`
	LastUpdated time.Time    `db:"last_updated"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:          m.ID,
		SeasonType:  m.SeasonType,
		Week:        m.Week,
		Season:      m.Season,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		GameTime:    nullTimeToTimePtr(m.GameTime),
		Status:      m.Status,
		StatusCode:  m.StatusCode,
		NeutralSite: m.NeutralSite,
		ESPNLink:    m.ESPNLink,
		CBSLink:     m.CBSLink,
		LastUpdated: m.LastUpdated,
	}
}

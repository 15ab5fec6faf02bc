package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tdshowdown/td-showdown/internal/domain/game"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) Insert(ctx context.Context, item game.Game) error {
	query, args, err := qb.InsertInto("games").
		Columns(
			"game_id", "season_type", "week", "season",
			"home_team", "away_team", "home_team_id", "away_team_id",
			"game_time", "game_status", "game_status_code",
			"neutral_site", "espn_link", "cbs_link", "last_updated",
		).
		Values(
			item.ID, item.SeasonType, item.Week, item.Season,
			item.HomeTeam, item.AwayTeam, item.HomeTeamID, item.AwayTeamID,
			timePtrToNullTime(item.GameTime), item.Status, item.StatusCode,
			item.NeutralSite, item.ESPNLink, item.CBSLink, nowUTC(),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	query, args, err := qb.Update("games").
		Set("season_type", item.SeasonType).
		Set("week", item.Week).
		Set("season", item.Season).
		Set("home_team", item.HomeTeam).
		Set("away_team", item.AwayTeam).
		Set("home_team_id", item.HomeTeamID).
		Set("away_team_id", item.AwayTeamID).
		Set("game_time", timePtrToNullTime(item.GameTime)).
		Set("game_status", item.Status).
		Set("game_status_code", item.StatusCode).
		Set("neutral_site", item.NeutralSite).
		Set("espn_link", item.ESPNLink).
		Set("cbs_link", item.CBSLink).
		SetExpr("last_updated", "NOW()").
		Where(qb.Eq("game_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, gameID, status string, statusCode int) error {
	query, args, err := qb.Update("games").
		Set("game_status", status).
		Set("game_status_code", statusCode).
		SetExpr("last_updated", "NOW()").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game status: %w", err)
	}
	return nil
}

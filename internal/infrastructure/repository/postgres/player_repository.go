package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tdshowdown/td-showdown/internal/domain/player"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, item player.Player) error {
	query, args, err := qb.InsertInto("players").
		Columns(
			"player_id", "player_name", "team_abv", "team_id", "position",
			"is_free_agent", "injury_status", "bye_week", "headshot_url", "last_updated",
		).
		Values(
			item.ID, item.Name, item.TeamAbv, item.TeamID, item.Position,
			item.IsFreeAgent, string(item.InjuryStatus), byeWeekToNullInt64(item.ByeWeek), item.HeadshotURL, nowUTC(),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	query, args, err := qb.Update("players").
		Set("player_name", item.Name).
		Set("team_abv", item.TeamAbv).
		Set("team_id", item.TeamID).
		Set("position", item.Position).
		Set("is_free_agent", item.IsFreeAgent).
		Set("injury_status", string(item.InjuryStatus)).
		Set("bye_week", byeWeekToNullInt64(item.ByeWeek)).
		Set("headshot_url", item.HeadshotURL).
		SetExpr("last_updated", "NOW()").
		Where(qb.Eq("player_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return nil
}

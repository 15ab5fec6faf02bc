package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tdshowdown/td-showdown/internal/domain/pick"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListPending(ctx context.Context, season int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("season", season),
			qb.Eq("is_successful", false),
		).
		OrderBy("game_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) ListUnresolvedByPlayer(ctx context.Context, playerID string) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("is_successful", false),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by player query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks by player: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PickRepository) ListUnresolvedPlayerIDs(ctx context.Context, season int) ([]string, error) {
	query, args, err := qb.Select("DISTINCT player_id").From("picks").
		Where(
			qb.Eq("season", season),
			qb.Eq("is_successful", false),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unresolved player ids query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list unresolved player ids: %w", err)
	}
	return out, nil
}

func (r *PickRepository) MarkSuccessful(ctx context.Context, pickID int64) (bool, error) {
	query, args, err := qb.Update("picks").
		Set("is_successful", true).
		SetExpr("last_updated", "NOW()").
		Where(
			qb.Eq("id", pickID),
			qb.Eq("is_successful", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark pick successful query: %w", err)
	}
	return r.execGuarded(ctx, query, args, "mark pick successful")
}

func (r *PickRepository) MarkInjured(ctx context.Context, pickID int64) (bool, error) {
	query, args, err := qb.Update("picks").
		Set("is_injured", true).
		SetExpr("last_updated", "NOW()").
		Where(
			qb.Eq("id", pickID),
			qb.Eq("is_successful", false),
			qb.Eq("is_injured", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark pick injured query: %w", err)
	}
	return r.execGuarded(ctx, query, args, "mark pick injured")
}

func (r *PickRepository) DeleteUnresolved(ctx context.Context, pickID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("picks").
		Where(
			qb.Eq("id", pickID),
			qb.Eq("is_successful", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete pick query: %w", err)
	}
	return r.execGuarded(ctx, query, args, "delete pick")
}

func (r *PickRepository) execGuarded(ctx context.Context, query string, args []any, action string) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", action, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", action, err)
	}
	return affected > 0, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tdshowdown/td-showdown/internal/domain/pickwindow"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type PickWindowRepository struct {
	db *sqlx.DB
}

func NewPickWindowRepository(db *sqlx.DB) *PickWindowRepository {
	return &PickWindowRepository{db: db}
}

// EnsureExists relies on the (week, season, start_time) unique constraint:
// ON CONFLICT DO NOTHING makes concurrent reconciliation runs safe.
func (r *PickWindowRepository) EnsureExists(ctx context.Context, item pickwindow.Window) (bool, error) {
	query, args, err := qb.InsertInto("pick_windows").
		Columns("week", "season", "day_name", "start_time", "is_open", "last_updated").
		Values(item.Week, item.Season, item.DayName, item.StartTime, item.IsOpen, nowUTC()).
		Suffix("ON CONFLICT (week, season, start_time) DO NOTHING").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build ensure pick window query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("ensure pick window: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ensure pick window rows affected: %w", err)
	}
	return affected > 0, nil
}

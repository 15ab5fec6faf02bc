package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tdshowdown/td-showdown/internal/domain/leaderboard"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// AwardWeeklyPoint applies the zero guard at the statement level: the update
// only lands while points_week is still zero for the user's current week, so
// concurrent score passes cannot double-award.
func (r *LeaderboardRepository) AwardWeeklyPoint(ctx context.Context, userID string, week, season int) (bool, error) {
	query, args, err := qb.Update("leaderboard").
		SetExpr("points_week", "points_week + 1").
		SetExpr("total_points", "total_points + 1").
		SetExpr("last_updated", "NOW()").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
			qb.Eq("season", season),
			qb.Eq("points_week", 0),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build award weekly point query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("award weekly point: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award weekly point rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *LeaderboardRepository) ListWeeklyResults(ctx context.Context, week, season int) ([]leaderboard.WeeklyRow, error) {
	query, args, err := qb.Select("picks.week", "players.player_name", "picks.is_successful").
		From("picks").
		Join("players ON players.player_id = picks.player_id").
		Where(
			qb.Eq("picks.week", week),
			qb.Eq("picks.season", season),
		).
		OrderBy("picks.is_successful DESC", "players.player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weekly results query: %w", err)
	}

	var rows []weeklyResultRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly results: %w", err)
	}

	out := make([]leaderboard.WeeklyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeaderboardRepository) ListOverall(ctx context.Context, season int) ([]leaderboard.OverallRow, error) {
	query, args, err := qb.Select("users.username", "leaderboard.total_points").
		From("leaderboard").
		Join("users ON users.user_id = leaderboard.user_id").
		Where(qb.Eq("leaderboard.season", season)).
		OrderBy("leaderboard.total_points DESC", "users.username").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list overall standings query: %w", err)
	}

	var rows []overallRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list overall standings: %w", err)
	}

	out := make([]leaderboard.OverallRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

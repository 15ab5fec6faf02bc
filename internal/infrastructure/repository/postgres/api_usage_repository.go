package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/tdshowdown/td-showdown/internal/platform/querybuilder"
)

type APIUsageRepository struct {
	db *sqlx.DB
}

func NewAPIUsageRepository(db *sqlx.DB) *APIUsageRepository {
	return &APIUsageRepository{db: db}
}

// Add upserts the month bucket so the counter only ever grows.
func (r *APIUsageRepository) Add(ctx context.Context, monthYear string, calls int) error {
	if calls <= 0 {
		return nil
	}

	query, args, err := qb.InsertInto("api_usage").
		Columns("month_year", "request_count", "request_time").
		Values(monthYear, calls, nowUTC()).
		Suffix("ON CONFLICT (month_year) DO UPDATE SET request_count = api_usage.request_count + EXCLUDED.request_count, request_time = EXCLUDED.request_time").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add api usage query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add api usage: %w", err)
	}
	return nil
}

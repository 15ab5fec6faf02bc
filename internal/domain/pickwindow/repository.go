package pickwindow

import "context"

type Repository interface {
	// EnsureExists inserts the window unless (week, season, start_time) is
	// already present; returns true when a row was created.
	EnsureExists(ctx context.Context, item Window) (bool, error)
}

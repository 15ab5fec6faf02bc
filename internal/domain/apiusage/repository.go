package apiusage

import "context"

type Repository interface {
	// Add records calls against the month bucket, creating the row on
	// first use.
	Add(ctx context.Context, monthYear string, calls int) error
}

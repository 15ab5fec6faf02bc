package pick

import "time"

// Pick is one user's weekly touchdown-scorer selection. At most one active
// pick exists per (user, week, season).
type Pick struct {
	ID           int64
	UserID       string
	Week         int
	Season       int
	PlayerID     string
	GameID       string
	IsSuccessful bool
	IsInjured    bool
	LastUpdated  time.Time
}

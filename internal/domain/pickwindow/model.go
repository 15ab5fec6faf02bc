package pickwindow

import "time"

// Window is one discrete voting window tied to a kickoff time. Uniqueness is
// on (week, season, start_time).
type Window struct {
	ID          int64
	Week        int
	Season      int
	DayName     string
	StartTime   time.Time
	IsOpen      bool
	LastUpdated time.Time
}

func FromKickoff(week, season int, kickoff time.Time) Window {
	return Window{
		Week:      week,
		Season:    season,
		DayName:   kickoff.Weekday().String(),
		StartTime: kickoff,
	}
}

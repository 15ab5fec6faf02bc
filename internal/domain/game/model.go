package game

import (
	"sort"
	"strings"
	"time"
)

const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "In Progress"
	StatusFinal      = "Final"
	StatusUnknown    = "Unknown"
)

// Game is one scheduled or played matchup as reported by the feed.
type Game struct {
	ID           string
	SeasonType   string
	Week         int
	Season       int
	HomeTeam     string
	AwayTeam     string
	HomeTeamID   string
	AwayTeamID   string
	GameTime     *time.Time
	Status       string
	StatusCode   int
	NeutralSite  bool
	ESPNLink     string
	CBSLink      string
	LastUpdated  time.Time
}

func NormalizeStatus(value string) string {
	status := strings.TrimSpace(value)
	if status == "" {
		return StatusUnknown
	}
	return status
}

// FieldsEqual reports whether every feed-tracked field matches. Timestamps
// compare by instant; LastUpdated is excluded so rerunning an unchanged feed
// leaves the stored row untouched.
func (g Game) FieldsEqual(other Game) bool {
	if g.ID != other.ID ||
		g.SeasonType != other.SeasonType ||
		g.Week != other.Week ||
		g.Season != other.Season ||
		g.HomeTeam != other.HomeTeam ||
		g.AwayTeam != other.AwayTeam ||
		g.HomeTeamID != other.HomeTeamID ||
		g.AwayTeamID != other.AwayTeamID ||
		g.Status != other.Status ||
		g.StatusCode != other.StatusCode ||
		g.NeutralSite != other.NeutralSite ||
		g.ESPNLink != other.ESPNLink ||
		g.CBSLink != other.CBSLink {
		return false
	}

	if (g.GameTime == nil) != (other.GameTime == nil) {
		return false
	}
	if g.GameTime != nil && !g.GameTime.Equal(*other.GameTime) {
		return false
	}

	return true
}

// WeekStart anchors a competition week to its first calendar day.
type WeekStart struct {
	Week  int
	Start time.Time
}

// WeekSchedule maps calendar dates onto competition weeks. Each week spans
// from its start date up to the next week's start date; the last entry is
// open-ended.
type WeekSchedule struct {
	entries []WeekStart
}

func NewWeekSchedule(startByWeek map[int]time.Time) WeekSchedule {
	entries := make([]WeekStart, 0, len(startByWeek))
	for week, start := range startByWeek {
		entries = append(entries, WeekStart{
			Week:  week,
			Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	return WeekSchedule{entries: entries}
}

func (s WeekSchedule) IsEmpty() bool {
	return len(s.entries) == 0
}

// DetermineWeek resolves a game date to its competition week. Dates before
// the first configured week have no bucket.
func (s WeekSchedule) DetermineWeek(date time.Time) (int, bool) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	for i, entry := range s.entries {
		last := i == len(s.entries)-1
		if last {
			if !day.Before(entry.Start) {
				return entry.Week, true
			}
			return 0, false
		}
		if !day.Before(entry.Start) && day.Before(s.entries[i+1].Start) {
			return entry.Week, true
		}
	}
	return 0, false
}

// CurrentWeek resolves today's date the same way game dates are resolved.
func (s WeekSchedule) CurrentWeek(now time.Time) (int, bool) {
	return s.DetermineWeek(now)
}

package usecase

import "context"

// StatsProvider is the upstream NFL data feed. Implementations normalize
// provider payloads into the external types below; the services never see
// raw feed JSON.
type StatsProvider interface {
	// FetchSeasonSchedule returns every game the feed knows for the
	// season, across all weeks.
	FetchSeasonSchedule(ctx context.Context, season int) ([]ExternalGame, error)
	FetchPlayerList(ctx context.Context) ([]ExternalPlayer, error)
	FetchTeams(ctx context.Context) ([]ExternalTeam, error)
	FetchBoxScore(ctx context.Context, gameID string) (ExternalBoxScore, error)
}

// Notifier delivers a human-readable message to the configured channel.
// Delivery failures never roll back store state.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

type ExternalGame struct {
	GameID      string
	SeasonType  string
	Season      int
	HomeTeam    string
	AwayTeam    string
	HomeTeamID  string
	AwayTeamID  string
	GameDate    string // provider calendar date, YYYYMMDD
	GameTime    string // provider local clock, e.g. "1:00p"; may be "TBD"
	NeutralSite bool
	ESPNLink    string
	CBSLink     string
}

type ExternalPlayer struct {
	PlayerID          string
	Name              string
	Team              string
	TeamID            string
	Position          string
	IsFreeAgent       bool
	InjuryDesignation string
	HeadshotURL       string
}

type ExternalTeam struct {
	TeamID          string
	Abbrev          string
	ByeWeekBySeason map[int]int
}

type ExternalScoringPlay struct {
	ScoreType string
	PlayerIDs []string
	Team      string
	Period    string
	Detail    string
}

type ExternalBoxScore struct {
	GameID       string
	Status       string
	StatusCode   int
	ScoringPlays []ExternalScoringPlay
}

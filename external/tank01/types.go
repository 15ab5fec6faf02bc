package tank01

import (
	"strconv"
	"strings"
)

// Feed payloads arrive wrapped in an envelope with the rows under "body".

type gamesEnvelope struct {
	StatusCode int        `json:"statusCode"`
	Body       []gameItem `json:"body"`
}

type gameItem struct {
	GameID      string `json:"gameID"`
	SeasonType  string `json:"seasonType"`
	Away        string `json:"away"`
	Home        string `json:"home"`
	TeamIDAway  string `json:"teamIDAway"`
	TeamIDHome  string `json:"teamIDHome"`
	GameDate    string `json:"gameDate"`
	GameTime    string `json:"gameTime"`
	GameWeek    string `json:"gameWeek"`
	NeutralSite string `json:"neutralSite"`
	EspnLink    string `json:"espnLink"`
	CbsLink     string `json:"cbsLink"`
}

type playersEnvelope struct {
	StatusCode int          `json:"statusCode"`
	Body       []playerItem `json:"body"`
}

type playerItem struct {
	PlayerID     string     `json:"playerID"`
	LongName     string     `json:"longName"`
	Team         string     `json:"team"`
	TeamID       string     `json:"teamID"`
	Pos          string     `json:"pos"`
	IsFreeAgent  string     `json:"isFreeAgent"`
	Injury       injuryItem `json:"injury"`
	EspnHeadshot string     `json:"espnHeadshot"`
}

type injuryItem struct {
	Designation string `json:"designation"`
	ReturnDate  string `json:"injReturnDate"`
	Description string `json:"description"`
}

type teamsEnvelope struct {
	StatusCode int        `json:"statusCode"`
	Body       []teamItem `json:"body"`
}

type teamItem struct {
	TeamID   string           `json:"teamID"`
	TeamAbv  string           `json:"teamAbv"`
	ByeWeeks map[string][]any `json:"byeWeeks"`
}

type boxScoreEnvelope struct {
	StatusCode int          `json:"statusCode"`
	Body       boxScoreItem `json:"body"`
}

type boxScoreItem struct {
	GameID         string            `json:"gameID"`
	GameStatus     string            `json:"gameStatus"`
	GameStatusCode string            `json:"gameStatusCode"`
	ScoringPlays   []scoringPlayItem `json:"scoringPlays"`
}

type scoringPlayItem struct {
	ScoreType   string   `json:"scoreType"`
	PlayerIDs   []string `json:"playerIDs"`
	Team        string   `json:"team"`
	ScorePeriod string   `json:"scorePeriod"`
	Score       string   `json:"score"`
}

// numericValue tolerates the feed flip-flopping between strings and numbers.
func numericValue(raw any) (int, bool) {
	switch typed := raw.(type) {
	case float64:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		value, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}

func truthyFlag(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

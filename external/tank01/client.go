package tank01

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/tdshowdown/td-showdown/internal/domain/apiusage"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
	"github.com/tdshowdown/td-showdown/internal/platform/resilience"
	"github.com/tdshowdown/td-showdown/internal/usecase"
)

const (
	defaultBaseURL = "https://tank01-nfl-live-in-game-real-time-statistics-nfl.p.rapidapi.com"
	defaultAPIHost = "tank01-nfl-live-in-game-real-time-statistics-nfl.p.rapidapi.com"

	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"
)

var errTank01Transient = crerr.New("tank01 transient failure")

// UsageRecorder tracks how many feed requests were spent against the
// provider's monthly quota.
type UsageRecorder interface {
	Add(ctx context.Context, monthYear string, calls int) error
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	APIHost        string
	Timeout        time.Duration
	MaxRetries     int
	Usage          UsageRecorder
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	apiHost        string
	maxRetries     int
	usage          UsageRecorder
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiHost := strings.TrimSpace(cfg.APIHost)
	if apiHost == "" {
		apiHost = defaultAPIHost
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		apiHost:        apiHost,
		maxRetries:     maxRetries,
		usage:          cfg.Usage,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// FetchSeasonSchedule pulls the whole season in one call via the feed's
// week=all mode, so future weeks reconcile long before kickoff.
func (c *Client) FetchSeasonSchedule(ctx context.Context, season int) ([]usecase.ExternalGame, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"week":       "all",
		"season":     strconv.Itoa(season),
		"seasonType": "reg",
	}
	var envelope gamesEnvelope
	if err := c.doJSON(ctx, "/getNFLGamesForWeek", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch season schedule season=%d: %w", season, err)
	}

	out := make([]usecase.ExternalGame, 0, len(envelope.Body))
	for _, item := range envelope.Body {
		if strings.TrimSpace(item.GameID) == "" {
			continue
		}
		out = append(out, usecase.ExternalGame{
			GameID:      strings.TrimSpace(item.GameID),
			SeasonType:  strings.TrimSpace(item.SeasonType),
			Season:      season,
			HomeTeam:    strings.TrimSpace(item.Home),
			AwayTeam:    strings.TrimSpace(item.Away),
			HomeTeamID:  strings.TrimSpace(item.TeamIDHome),
			AwayTeamID:  strings.TrimSpace(item.TeamIDAway),
			GameDate:    strings.TrimSpace(item.GameDate),
			GameTime:    strings.TrimSpace(item.GameTime),
			NeutralSite: truthyFlag(item.NeutralSite),
			ESPNLink:    strings.TrimSpace(item.EspnLink),
			CBSLink:     strings.TrimSpace(item.CbsLink),
		})
	}
	return out, nil
}

func (c *Client) FetchPlayerList(ctx context.Context) ([]usecase.ExternalPlayer, error) {
	var envelope playersEnvelope
	if err := c.doJSON(ctx, "/getNFLPlayerList", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player list: %w", err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(envelope.Body))
	for _, item := range envelope.Body {
		if strings.TrimSpace(item.PlayerID) == "" {
			continue
		}
		out = append(out, usecase.ExternalPlayer{
			PlayerID:          strings.TrimSpace(item.PlayerID),
			Name:              strings.TrimSpace(item.LongName),
			Team:              strings.TrimSpace(item.Team),
			TeamID:            strings.TrimSpace(item.TeamID),
			Position:          strings.TrimSpace(item.Pos),
			IsFreeAgent:       truthyFlag(item.IsFreeAgent),
			InjuryDesignation: strings.TrimSpace(item.Injury.Designation),
			HeadshotURL:       strings.TrimSpace(item.EspnHeadshot),
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context) ([]usecase.ExternalTeam, error) {
	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "/getNFLTeams", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Body))
	for _, item := range envelope.Body {
		if strings.TrimSpace(item.TeamID) == "" {
			continue
		}
		byeWeeks := make(map[int]int, len(item.ByeWeeks))
		for seasonKey, weeks := range item.ByeWeeks {
			season, err := strconv.Atoi(strings.TrimSpace(seasonKey))
			if err != nil || len(weeks) == 0 {
				continue
			}
			if week, ok := numericValue(weeks[0]); ok {
				byeWeeks[season] = week
			}
		}
		out = append(out, usecase.ExternalTeam{
			TeamID:          strings.TrimSpace(item.TeamID),
			Abbrev:          strings.TrimSpace(item.TeamAbv),
			ByeWeekBySeason: byeWeeks,
		})
	}
	return out, nil
}

func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (usecase.ExternalBoxScore, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return usecase.ExternalBoxScore{}, fmt.Errorf("game id is required")
	}

	var envelope boxScoreEnvelope
	if err := c.doJSON(ctx, "/getNFLBoxScore", map[string]string{"gameID": gameID}, &envelope); err != nil {
		return usecase.ExternalBoxScore{}, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}

	statusCode := 0
	if value, err := strconv.Atoi(strings.TrimSpace(envelope.Body.GameStatusCode)); err == nil {
		statusCode = value
	}

	plays := make([]usecase.ExternalScoringPlay, 0, len(envelope.Body.ScoringPlays))
	for _, play := range envelope.Body.ScoringPlays {
		plays = append(plays, usecase.ExternalScoringPlay{
			ScoreType: strings.TrimSpace(play.ScoreType),
			PlayerIDs: play.PlayerIDs,
			Team:      strings.TrimSpace(play.Team),
			Period:    strings.TrimSpace(play.ScorePeriod),
			Detail:    strings.TrimSpace(play.Score),
		})
	}

	return usecase.ExternalBoxScore{
		GameID:       gameID,
		Status:       strings.TrimSpace(envelope.Body.GameStatus),
		StatusCode:   statusCode,
		ScoringPlays: plays,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tank01 circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && stderrors.Is(err, errTank01Transient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(headerAPIKey, c.apiKey)
		req.Header.Set(headerAPIHost, c.apiHost)

		// The provider bills every request, retries included.
		c.recordUsage(ctx)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTank01Transient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTank01Transient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errTank01Transient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		wait := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "tank01 request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordUsage(ctx context.Context) {
	if c.usage == nil {
		return
	}
	if err := c.usage.Add(ctx, apiusage.MonthKey(c.now()), 1); err != nil {
		c.logger.WarnContext(ctx, "record api usage failed", "error", err)
	}
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return value
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

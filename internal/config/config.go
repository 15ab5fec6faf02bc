package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tdshowdown/td-showdown/internal/platform/logging"
)

const (
	EnvDev  = "development"
	EnvProd = "production"
)

// Config stores runtime configuration for the reconciliation passes.
type Config struct {
	AppEnv   string `validate:"required,oneof=development production"`
	DBURL    string `validate:"required"`
	LogLevel logging.Level

	Season         int               `validate:"required,gt=0"`
	WeekStartDates map[int]time.Time `validate:"required,min=1"`
	SourceLocation *time.Location    `validate:"required"`
	TargetLocation *time.Location    `validate:"required"`
	InjuryPolicy   string            `validate:"required,oneof=flag remove"`

	Tank01BaseURL               string        `validate:"required,url"`
	Tank01APIKey                string        `validate:"required"`
	Tank01APIHost               string        `validate:"required"`
	Tank01Timeout               time.Duration `validate:"gt=0"`
	Tank01MaxRetries            int           `validate:"gte=0"`
	Tank01CircuitEnabled        bool
	Tank01CircuitFailureCount   int           `validate:"gte=1"`
	Tank01CircuitOpenTimeout    time.Duration `validate:"gt=0"`
	Tank01CircuitHalfOpenMaxReq int           `validate:"gte=1"`

	DiscordWebhookURL     string        `validate:"required,url"`
	NotifyTimeout         time.Duration `validate:"gt=0"`
	NotifyMaxRetries      int           `validate:"gte=0"`
	NotifyInitialInterval time.Duration `validate:"gt=0"`

	ScoreMaxWorkers int `validate:"gte=1"`
}

func Load() (Config, error) {
	appEnv := strings.TrimSpace(getEnv("APP_ENV", EnvDev))

	season, err := getEnvAsInt("SEASON", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON: %w", err)
	}

	weekStartDates, err := parseWeekStartDates(getEnv("WEEK_START_DATES", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEEK_START_DATES: %w", err)
	}

	sourceLocation, err := time.LoadLocation(getEnv("TIMEZONE_SOURCE", "America/New_York"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TIMEZONE_SOURCE: %w", err)
	}
	targetLocation, err := time.LoadLocation(getEnv("TIMEZONE_TARGET", "Europe/Dublin"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TIMEZONE_TARGET: %w", err)
	}

	tank01Timeout, err := time.ParseDuration(getEnv("TANK01_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_TIMEOUT: %w", err)
	}
	tank01MaxRetries, err := getEnvAsInt("TANK01_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_MAX_RETRIES: %w", err)
	}
	tank01CircuitEnabled, err := strconv.ParseBool(getEnv("TANK01_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_CIRCUIT_ENABLED: %w", err)
	}
	tank01CircuitFailureCount, err := getEnvAsInt("TANK01_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	tank01CircuitOpenTimeout, err := time.ParseDuration(getEnv("TANK01_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	tank01CircuitHalfOpenMaxReq, err := getEnvAsInt("TANK01_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TANK01_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_TIMEOUT: %w", err)
	}
	notifyMaxRetries, err := getEnvAsInt("NOTIFY_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_MAX_RETRIES: %w", err)
	}
	notifyInitialInterval, err := time.ParseDuration(getEnv("NOTIFY_INITIAL_INTERVAL", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_INITIAL_INTERVAL: %w", err)
	}

	scoreMaxWorkers, err := getEnvAsInt("SCORE_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_MAX_WORKERS: %w", err)
	}

	cfg := Config{
		AppEnv:   appEnv,
		DBURL:    strings.TrimSpace(getEnv("DB_URL", "")),
		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		Season:         season,
		WeekStartDates: weekStartDates,
		SourceLocation: sourceLocation,
		TargetLocation: targetLocation,
		InjuryPolicy:   strings.ToLower(strings.TrimSpace(getEnv("INJURY_POLICY", "flag"))),

		Tank01BaseURL:               strings.TrimSpace(getEnv("TANK01_BASE_URL", "https://tank01-nfl-live-in-game-real-time-statistics-nfl.p.rapidapi.com")),
		Tank01APIKey:                strings.TrimSpace(getEnv("TANK01_API_KEY", "")),
		Tank01APIHost:               strings.TrimSpace(getEnv("TANK01_API_HOST", "tank01-nfl-live-in-game-real-time-statistics-nfl.p.rapidapi.com")),
		Tank01Timeout:               tank01Timeout,
		Tank01MaxRetries:            tank01MaxRetries,
		Tank01CircuitEnabled:        tank01CircuitEnabled,
		Tank01CircuitFailureCount:   tank01CircuitFailureCount,
		Tank01CircuitOpenTimeout:    tank01CircuitOpenTimeout,
		Tank01CircuitHalfOpenMaxReq: tank01CircuitHalfOpenMaxReq,

		DiscordWebhookURL:     strings.TrimSpace(getEnv("DISCORD_WEBHOOK_URL", "")),
		NotifyTimeout:         notifyTimeout,
		NotifyMaxRetries:      notifyMaxRetries,
		NotifyInitialInterval: notifyInitialInterval,

		ScoreMaxWorkers: scoreMaxWorkers,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// parseWeekStartDates reads "week:YYYY-MM-DD" pairs separated by commas,
// e.g. WEEK_START_DATES=7:2024-10-17,8:2024-10-24.
func parseWeekStartDates(raw string) (map[int]time.Time, error) {
	out := make(map[int]time.Time)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected week:date", item)
		}

		week, err := strconv.Atoi(strings.TrimSpace(segments[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid week in item %q: %w", item, err)
		}
		if week <= 0 {
			return nil, fmt.Errorf("week must be > 0 in item %q", item)
		}

		start, err := time.Parse("2006-01-02", strings.TrimSpace(segments[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid date in item %q: %w", item, err)
		}

		if _, exists := out[week]; exists {
			return nil, fmt.Errorf("duplicate week %d", week)
		}
		out[week] = start
	}
	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	LLMBaseURL   string
	LLMAPIKey    string
	TranslateURL string

	AllowedRooms []string

	// Game tunables (process-wide defaults; per-room config lives in the store)
	DefaultRounds      int
	HintIntervalSec    int
	RoundDurationMin   int
	BasePoints         int
	RecentWindow       int
	GuessThrottleMs    int
	InterRoundDelaySec int

	// Fuzzy pre-match thresholds (empirically tuned; do not hard-code elsewhere)
	MatchPrimary   float64
	MatchAlternate float64
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DefaultRounds:      3,
		HintIntervalSec:    60,
		RoundDurationMin:   5,
		BasePoints:         15,
		RecentWindow:       30,
		GuessThrottleMs:    1000,
		InterRoundDelaySec: 5,
		MatchPrimary:       0.88,
		MatchAlternate:     0.80,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.LLMBaseURL = strings.TrimSpace(os.Getenv("LLM_BASE_URL"))
	cfg.LLMAPIKey = strings.TrimSpace(os.Getenv("LLM_API_KEY"))
	cfg.TranslateURL = strings.TrimSpace(os.Getenv("TRANSLATE_URL"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("GAME_DEFAULT_ROUNDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultRounds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_HINT_INTERVAL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HintIntervalSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_ROUND_DURATION_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoundDurationMin = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_BASE_POINTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BasePoints = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_RECENT_WINDOW")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentWindow = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_GUESS_THROTTLE_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.GuessThrottleMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_INTER_ROUND_DELAY_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.InterRoundDelaySec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_MATCH_PRIMARY")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.MatchPrimary = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("GAME_MATCH_ALTERNATE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.MatchAlternate = f
		}
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	if cfg.LLMBaseURL == "" {
		return nil, errors.New("LLM_BASE_URL is required")
	}

	return cfg, nil
}

package domain

import (
	"strings"
	"time"
)

// GameMode selects which content family a session plays.
type GameMode string

const (
	ModeGeo    GameMode = "geo"
	ModeRiddle GameMode = "riddle"
)

// ParseMode maps user input (Korean aliases included) to a mode.
func ParseMode(s string) (GameMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geo", "지리", "장소":
		return ModeGeo, true
	case "riddle", "수수께끼", "퀴즈":
		return ModeRiddle, true
	default:
		return "", false
	}
}

// Label returns the user-facing Korean label of the mode.
func (m GameMode) Label() string {
	switch m {
	case ModeGeo:
		return "지리 퀴즈"
	case ModeRiddle:
		return "수수께끼"
	default:
		return string(m)
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Multiplier is the scoring scale for the difficulty tier.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 1.0
	case DifficultyHard:
		return 2.0
	default:
		return 1.5
	}
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "쉬움":
		return DifficultyEasy, true
	case "normal", "보통":
		return DifficultyNormal, true
	case "hard", "어려움":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// GameConfig is the per-room tunable set, persisted by the store and cached
// on the session.
type GameConfig struct {
	Difficulty       Difficulty `json:"difficulty"`
	TotalRounds      int        `json:"total_rounds"`
	HintIntervalSec  int        `json:"hint_interval_sec"`
	RoundDurationMin int        `json:"round_duration_min"`
	BasePoints       int        `json:"base_points"`
	TimeBonus        bool       `json:"time_bonus"`
	DifficultyBonus  bool       `json:"difficulty_bonus"`
	StreakBonus      bool       `json:"streak_bonus"`
	TopicScope       string     `json:"topic_scope,omitempty"`
}

// DefaultGameConfig returns the stock per-room settings.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Difficulty:       DifficultyNormal,
		TotalRounds:      3,
		HintIntervalSec:  60,
		RoundDurationMin: 5,
		BasePoints:       15,
		TimeBonus:        true,
		DifficultyBonus:  true,
		StreakBonus:      true,
	}
}

// Content is one selected answer target.
type Content struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Alternates []string `json:"alternates,omitempty"`
}

// RoundRecord is the persisted outcome of one round.
type RoundRecord struct {
	SessionID       string
	Channel         string
	Mode            GameMode
	Round           int
	ContentID       string
	Target          string
	Result          string // guessed | timeout | stopped | content_error | clue_error
	WinnerID        string
	WinnerName      string
	Points          int
	HintCount       int
	WrongGuessCount int
	Elapsed         time.Duration
	EndedAt         time.Time
}

// ScoreRow is one leaderboard entry for a room.
type ScoreRow struct {
	UserID      string
	DisplayName string
	Points      int
	Wins        int
}

// SessionRound identifies one played round inside a session snapshot.
type SessionRound struct {
	Round     int    `json:"round"`
	ContentID string `json:"content_id"`
	Label     string `json:"label"`
}

// SessionSnapshot is the latest completed session of a room, kept for the
// report workflow.
type SessionSnapshot struct {
	SessionID string         `json:"session_id"`
	Channel   string         `json:"channel"`
	Mode      GameMode       `json:"mode"`
	Rounds    []SessionRound `json:"rounds"`
	EndedAt   time.Time      `json:"ended_at"`
}

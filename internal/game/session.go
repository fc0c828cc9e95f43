package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

var (
	ErrSessionActive = errors.New("game session already active in room")
	ErrNoSession     = errors.New("no game session in room")
)

// Phase is the lifecycle position of a room's session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelecting  Phase = "selecting"
	PhaseStarted    Phase = "started"
	PhaseInProgress Phase = "inProgress"
	PhaseResolved   Phase = "resolved"
	PhaseEnding     Phase = "ending"
)

// EndReason records why a round stopped accepting guesses.
type EndReason string

const (
	EndGuessed      EndReason = "guessed"
	EndTimeout      EndReason = "timeout"
	EndStopped      EndReason = "stopped"
	EndContentError EndReason = "content_error"
	EndClueError    EndReason = "clue_error"
)

// Store is the persistence surface the engine consumes. Failures on the
// scoring/history paths are logged and swallowed by the engine.
type Store interface {
	LoadConfig(ctx context.Context, channel string) (*domain.GameConfig, error)
	SaveConfig(ctx context.Context, channel string, cfg domain.GameConfig) error
	RecordRound(ctx context.Context, rec *domain.RoundRecord) error
	UpdateScore(ctx context.Context, channel, userID, displayName string, points int, won bool) error
	Leaderboard(ctx context.Context, channel string, limit int) ([]domain.ScoreRow, error)
	ClearLeaderboard(ctx context.Context, channel string) error
	FlagContent(ctx context.Context, contentID, reason, reporter string) error
	RecentContentKeys(ctx context.Context, channel string, mode domain.GameMode, limit int) ([]string, error)
	PushRecentContentKey(ctx context.Context, channel string, mode domain.GameMode, contentID string) error
	SaveLatestSession(ctx context.Context, snap *domain.SessionSnapshot) error
	LatestSession(ctx context.Context, channel string) (*domain.SessionSnapshot, error)
}

// Transport publishes chat messages. Fire-and-forget; per-room ordering is
// the relay's responsibility.
type Transport interface {
	PublishMessage(ctx context.Context, channel, text string) error
}

type playerScore struct {
	DisplayName string
	Points      int
}

// roundState is reset at every round boundary.
type roundState struct {
	content         *domain.Content
	hints           []string
	startedAt       time.Time
	endReason       EndReason
	winnerID        string
	winnerName      string
	winnerElapsed   time.Duration
	wrongGuessCount int
	wrongReasons    []string
	guessCache      map[string]bool // normalized guess → verdict (wrong guesses only)
	lastGuessAt     time.Time
}

// Session is the per-room game state. All mutation happens under mu; every
// code path that resumes after I/O re-checks phase (and timer epoch for
// timer callbacks) before touching state again.
type Session struct {
	mu sync.Mutex

	channel string
	phase   Phase

	mode  domain.GameMode
	scope string

	sessionID     string
	initiatorID   string
	initiatorName string

	totalRounds  int
	currentRound int // 1-based; only advances inside the next-round transition

	scores       map[string]*playerScore
	streaks      map[string]int
	excluded     map[string]struct{} // content ids used this session
	playedRounds []domain.SessionRound

	round roundState

	cfg       domain.GameConfig
	cfgLoaded bool

	stopAfterRound bool

	// timerEpoch invalidates queued timer callbacks; bumped on every clear.
	timerEpoch uint64
	hintTimer  *time.Timer
	roundTimer *time.Timer
}

func newSession(channel string) *Session {
	return &Session{channel: channel, phase: PhaseIdle}
}

// resolveLocked moves an active round into resolved exactly once. A second
// resolution attempt (late timer, late verdict) is a no-op.
func (s *Session) resolveLocked(reason EndReason) bool {
	switch s.phase {
	case PhaseSelecting, PhaseStarted, PhaseInProgress:
	default:
		return false
	}
	s.phase = PhaseResolved
	s.round.endReason = reason
	s.clearTimersLocked()
	return true
}

func (s *Session) clearTimersLocked() {
	s.timerEpoch++
	if s.hintTimer != nil {
		s.hintTimer.Stop()
		s.hintTimer = nil
	}
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}
}

// resetLocked returns the session to a fresh idle record, keeping only the
// room config cache.
func (s *Session) resetLocked() {
	s.clearTimersLocked()
	s.phase = PhaseIdle
	s.mode = ""
	s.scope = ""
	s.sessionID = ""
	s.initiatorID = ""
	s.initiatorName = ""
	s.totalRounds = 0
	s.currentRound = 0
	s.scores = nil
	s.streaks = nil
	s.excluded = nil
	s.playedRounds = nil
	s.round = roundState{}
	s.stopAfterRound = false
}

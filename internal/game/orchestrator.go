package game

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
	"github.com/kapu/kakao-guess-bot-go/internal/msgcat"
	"github.com/kapu/kakao-guess-bot-go/internal/provider"
	"github.com/kapu/kakao-guess-bot-go/internal/util"
)

// Options tunes engine timing and matching. Zero values take defaults;
// tests shrink the durations.
type Options struct {
	InterRoundDelay time.Duration
	GuessThrottle   time.Duration
	AcquireBackoff  time.Duration // linear step: step × attempt
	ReportTTL       time.Duration

	// HintInterval/RoundDuration override the per-room config when non-zero.
	HintInterval  time.Duration
	RoundDuration time.Duration

	HintCap     int // max hints per round, first hint included
	RecentLimit int

	Thresholds    MatchThresholds
	DefaultConfig domain.GameConfig
}

func (o Options) withDefaults() Options {
	if o.InterRoundDelay <= 0 {
		o.InterRoundDelay = 5 * time.Second
	}
	if o.GuessThrottle < 0 {
		o.GuessThrottle = 0
	} else if o.GuessThrottle == 0 {
		o.GuessThrottle = time.Second
	}
	if o.AcquireBackoff <= 0 {
		o.AcquireBackoff = 500 * time.Millisecond
	}
	if o.ReportTTL <= 0 {
		o.ReportTTL = 60 * time.Second
	}
	if o.HintCap <= 0 {
		o.HintCap = 5
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = 30
	}
	if o.Thresholds.Primary <= 0 {
		o.Thresholds.Primary = DefaultMatchThresholds().Primary
	}
	if o.Thresholds.Alternate <= 0 {
		o.Thresholds.Alternate = DefaultMatchThresholds().Alternate
	}
	if o.DefaultConfig == (domain.GameConfig{}) {
		o.DefaultConfig = domain.DefaultGameConfig()
	}
	return o
}

// Engine drives one guessing-game session per room: content acquisition,
// hint/round timers, guess verification, scoring and teardown.
type Engine struct {
	provider   provider.ContentProvider
	translator provider.Translator
	store      Store
	transport  Transport
	msgs       *msgcat.Catalog
	logger     *zap.Logger

	registry *Registry
	reports  *reportDesk
	opts     Options
}

func NewEngine(p provider.ContentProvider, tr provider.Translator, st Store, tp Transport, msgs *msgcat.Catalog, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Engine{
		provider:   p,
		translator: tr,
		store:      st,
		transport:  tp,
		msgs:       msgs,
		logger:     logger,
		registry:   NewRegistry(),
		reports:    newReportDesk(opts.ReportTTL),
		opts:       opts,
	}
}

// StartSession opens a new multi-round session in the room and kicks off the
// first round. Duplicate starts answer in chat and leave the running session
// untouched.
func (e *Engine) StartSession(ctx context.Context, channel string, mode domain.GameMode, scope, initiatorID, initiatorName string, rounds int) error {
	sess := e.registry.get(channel)
	e.roomConfig(ctx, sess)

	sess.mu.Lock()
	if sess.phase != PhaseIdle {
		round, total := sess.currentRound, sess.totalRounds
		initiator := sess.initiatorName
		same := sess.initiatorID == initiatorID
		sess.mu.Unlock()
		if same {
			e.publish(ctx, channel, e.msgs.Text("game.already_running",
				map[string]any{"Round": round, "TotalRounds": total},
				"이미 진행 중인 게임이 있습니다."))
			return nil
		}
		e.publish(ctx, channel, e.msgs.Text("game.busy",
			map[string]any{"Initiator": initiator},
			initiator+"님이 시작한 게임이 진행 중입니다."))
		return ErrSessionActive
	}

	total := rounds
	if total <= 0 {
		total = sess.cfg.TotalRounds
	}
	if total < 1 {
		total = 1
	} else if total > 10 {
		total = 10
	}
	if scope == "" {
		scope = sess.cfg.TopicScope
	}

	sess.phase = PhaseSelecting
	sess.mode = mode
	sess.scope = scope
	sess.sessionID = uuid.NewString()
	sess.initiatorID = initiatorID
	sess.initiatorName = initiatorName
	sess.totalRounds = total
	sess.currentRound = 1
	sess.scores = make(map[string]*playerScore)
	sess.streaks = make(map[string]int)
	sess.excluded = make(map[string]struct{})
	sess.playedRounds = nil
	sess.stopAfterRound = false
	sess.round = roundState{}
	sessionID := sess.sessionID
	sess.mu.Unlock()

	e.logger.Info("game_session_start",
		zap.String("room", channel),
		zap.String("session_id", sessionID),
		zap.String("mode", string(mode)),
		zap.Int("rounds", total))

	e.runRound(ctx, sess)
	return nil
}

// StopSession ends the session immediately, or after the current teardown if
// a round is already resolving.
func (e *Engine) StopSession(ctx context.Context, channel, userID string) error {
	_ = userID // 중지는 누구나 가능 (방 단위 게임)
	sess := e.registry.peek(channel)
	if sess == nil {
		e.publish(ctx, channel, e.msgs.Text("game.no_session", nil, "진행 중인 게임이 없습니다."))
		return ErrNoSession
	}
	sess.mu.Lock()
	switch sess.phase {
	case PhaseIdle:
		sess.mu.Unlock()
		e.publish(ctx, channel, e.msgs.Text("game.no_session", nil, "진행 중인 게임이 없습니다."))
		return ErrNoSession
	case PhaseResolved, PhaseEnding:
		// 라운드 정리 중: 이번 정리 후 다음 라운드로 넘어가지 않는다.
		sess.stopAfterRound = true
		sess.mu.Unlock()
		return nil
	}
	sess.resolveLocked(EndStopped)
	sess.mu.Unlock()
	e.finishRound(ctx, sess)
	return nil
}

// HasActiveSession reports whether the room currently accepts guesses or is
// mid-session.
func (e *Engine) HasActiveSession(channel string) bool {
	sess := e.registry.peek(channel)
	if sess == nil {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.phase != PhaseIdle
}

// CurrentInitiator returns who started the room's session, if one is active.
func (e *Engine) CurrentInitiator(channel string) (string, bool) {
	sess := e.registry.peek(channel)
	if sess == nil {
		return "", false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.phase == PhaseIdle {
		return "", false
	}
	return sess.initiatorID, true
}

// runRound acquires content and transitions selecting → started → inProgress.
// Called from the start goroutine and from the inter-round advance.
func (e *Engine) runRound(ctx context.Context, sess *Session) {
	content, hint, failReason, err := e.acquireRound(ctx, sess)
	if err != nil {
		if err == errRoundAborted {
			return // 중지가 먼저 처리됨: 정리는 중지 쪽에서 한다
		}
		sess.mu.Lock()
		ok := sess.resolveLocked(failReason)
		sess.mu.Unlock()
		if ok {
			e.finishRound(ctx, sess)
		}
		return
	}

	sess.mu.Lock()
	if sess.phase != PhaseSelecting {
		sess.mu.Unlock()
		return
	}
	sess.phase = PhaseStarted
	sess.round = roundState{
		content:    content,
		hints:      []string{hint},
		guessCache: make(map[string]bool),
	}
	channel := sess.channel
	data := map[string]any{
		"ModeLabel":   sess.mode.Label(),
		"Round":       sess.currentRound,
		"TotalRounds": sess.totalRounds,
		"Hint":        hint,
		"DurationMin": int(e.roundDuration(sess.cfg) / time.Minute),
	}
	sess.mu.Unlock()

	e.publish(ctx, channel, e.msgs.Text("game.round_start", data, "라운드 시작! 첫 번째 힌트: "+hint))

	sess.mu.Lock()
	if sess.phase != PhaseStarted {
		sess.mu.Unlock()
		return
	}
	sess.phase = PhaseInProgress
	sess.round.startedAt = time.Now()
	e.armTimersLocked(sess)
	round := sess.currentRound
	sess.mu.Unlock()

	e.logger.Info("game_round_live",
		zap.String("room", channel),
		zap.Int("round", round),
		zap.String("content_id", content.ID))
}

// finishRound is the single teardown path after a round resolves: reveal
// message, best-effort persistence, then advance or end the session.
func (e *Engine) finishRound(ctx context.Context, sess *Session) {
	sess.mu.Lock()
	if sess.phase != PhaseResolved {
		sess.mu.Unlock()
		return
	}
	sess.phase = PhaseEnding

	reason := sess.round.endReason
	content := sess.round.content
	channel := sess.channel
	mode := sess.mode
	scope := sess.scope
	sessionID := sess.sessionID
	roundNo, total := sess.currentRound, sess.totalRounds
	winnerID, winnerName := sess.round.winnerID, sess.round.winnerName
	elapsed := sess.round.winnerElapsed
	hintCount := len(sess.round.hints)
	wrongCount := sess.round.wrongGuessCount
	cfg := sess.cfg

	points, streak := 0, 0
	if reason == EndGuessed {
		points = ComputePoints(cfg, elapsed, e.roundDuration(cfg), sess.streaks[winnerID])
		ps := sess.scores[winnerID]
		if ps == nil {
			ps = &playerScore{}
			sess.scores[winnerID] = ps
		}
		ps.DisplayName = winnerName
		ps.Points += points
		// 정답자 외 전원 연승 리셋
		for uid := range sess.streaks {
			if uid != winnerID {
				delete(sess.streaks, uid)
			}
		}
		sess.streaks[winnerID]++
		streak = sess.streaks[winnerID]
	} else {
		sess.streaks = make(map[string]int)
	}
	if content != nil {
		sess.playedRounds = append(sess.playedRounds, domain.SessionRound{
			Round:     roundNo,
			ContentID: content.ID,
			Label:     content.Label,
		})
	}
	sess.mu.Unlock()

	e.publish(ctx, channel, e.revealText(ctx, reason, content, mode, scope, winnerName, points, elapsed, streak))

	e.logger.Info("game_round_end",
		zap.String("room", channel),
		zap.Int("round", roundNo),
		zap.String("result", string(reason)),
		zap.Int("points", points))

	if content != nil {
		rec := &domain.RoundRecord{
			SessionID:       sessionID,
			Channel:         channel,
			Mode:            mode,
			Round:           roundNo,
			ContentID:       content.ID,
			Target:          content.Label,
			Result:          string(reason),
			WinnerID:        winnerID,
			WinnerName:      winnerName,
			Points:          points,
			HintCount:       hintCount,
			WrongGuessCount: wrongCount,
			Elapsed:         elapsed,
			EndedAt:         time.Now(),
		}
		if err := e.store.RecordRound(ctx, rec); err != nil {
			e.logger.Warn("store_round_error", zap.String("room", channel), zap.Error(err))
		}
		if err := e.store.PushRecentContentKey(ctx, channel, mode, content.ID); err != nil {
			e.logger.Warn("store_recent_error", zap.String("room", channel), zap.Error(err))
		}
	}
	if reason == EndGuessed {
		if err := e.store.UpdateScore(ctx, channel, winnerID, winnerName, points, true); err != nil {
			e.logger.Warn("store_score_error", zap.String("room", channel), zap.Error(err))
		}
	}

	advance := (reason == EndGuessed || reason == EndTimeout) && roundNo < total
	if advance {
		sess.mu.Lock()
		stop := sess.stopAfterRound
		sess.mu.Unlock()
		if !stop {
			e.publish(ctx, channel, e.msgs.Text("game.next_round", nil, "잠시 후 다음 라운드가 시작됩니다…"))
			time.Sleep(e.opts.InterRoundDelay)
			sess.mu.Lock()
			if sess.phase != PhaseEnding {
				sess.mu.Unlock()
				return
			}
			if !sess.stopAfterRound {
				sess.currentRound++
				sess.phase = PhaseSelecting
				sess.round = roundState{}
				sess.mu.Unlock()
				e.runRound(ctx, sess)
				return
			}
			sess.mu.Unlock()
		}
	}
	e.finishSession(ctx, sess)
}

// finishSession publishes final scores, snapshots the session for the report
// workflow, and resets the room to idle.
func (e *Engine) finishSession(ctx context.Context, sess *Session) {
	sess.mu.Lock()
	channel := sess.channel
	sessionID := sess.sessionID
	mode := sess.mode

	type entry struct {
		Rank   int
		Name   string
		Points int
	}
	entries := make([]entry, 0, len(sess.scores))
	for _, ps := range sess.scores {
		entries = append(entries, entry{Name: ps.DisplayName, Points: ps.Points})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	for i := range entries {
		entries[i].Rank = i + 1
	}

	var snap *domain.SessionSnapshot
	if len(sess.playedRounds) > 0 {
		snap = &domain.SessionSnapshot{
			SessionID: sessionID,
			Channel:   channel,
			Mode:      mode,
			Rounds:    append([]domain.SessionRound(nil), sess.playedRounds...),
			EndedAt:   time.Now(),
		}
	}
	sess.resetLocked()
	sess.mu.Unlock()

	if len(entries) > 0 {
		e.publish(ctx, channel, e.msgs.Text("game.final_scores",
			map[string]any{"Entries": entries}, "게임 종료!"))
	} else if snap != nil {
		e.publish(ctx, channel, e.msgs.Text("game.final_no_scores", nil, "게임 종료!"))
	}
	if snap != nil {
		if err := e.store.SaveLatestSession(ctx, snap); err != nil {
			e.logger.Warn("store_snapshot_error", zap.String("room", channel), zap.Error(err))
		}
	}

	e.logger.Info("game_session_end",
		zap.String("room", channel),
		zap.String("session_id", sessionID),
		zap.Int("scored_players", len(entries)))
}

// revealText composes the round-end message, optionally enriched by the
// provider's reveal blurb.
func (e *Engine) revealText(ctx context.Context, reason EndReason, content *domain.Content, mode domain.GameMode, scope, winnerName string, points int, elapsed time.Duration, streak int) string {
	var text string
	switch reason {
	case EndGuessed:
		text = e.msgs.Text("game.correct", map[string]any{
			"Winner":  winnerName,
			"Target":  content.Label,
			"Points":  points,
			"Elapsed": formatElapsed(elapsed),
			"Streak":  streak,
		}, fmt.Sprintf("정답! %s (+%d점)", content.Label, points))
	case EndTimeout:
		text = e.msgs.Text("game.timeout", map[string]any{"Target": content.Label},
			"시간 종료! 정답: "+content.Label)
	case EndStopped:
		if content == nil {
			return e.msgs.Text("game.no_session", nil, "게임이 중지되었습니다.")
		}
		text = e.msgs.Text("game.stopped", map[string]any{"Target": content.Label},
			"게임이 중지되었습니다. 정답: "+content.Label)
	default: // content_error, clue_error
		return e.msgs.Text("game.generation_error", nil,
			"문제를 준비하지 못해 게임을 종료합니다.")
	}

	if content != nil && (reason == EndGuessed || reason == EndTimeout) {
		blurb, err := e.provider.Reveal(ctx, content, mode, scope, string(reason))
		if err != nil {
			e.logger.Debug("reveal_blurb_error", zap.Error(err))
		} else if strings.TrimSpace(blurb) != "" {
			// 해설은 '전체보기' 아래로 접는다
			text = util.ApplyKakaoSeeMorePadding(blurb, text)
		}
	}
	return text
}

// --- room config -----------------------------------------------------------

// roomConfig returns the session's config, loading it from the store on first
// touch. Store failures fall back to defaults and are logged.
func (e *Engine) roomConfig(ctx context.Context, sess *Session) domain.GameConfig {
	sess.mu.Lock()
	if sess.cfgLoaded {
		cfg := sess.cfg
		sess.mu.Unlock()
		return cfg
	}
	channel := sess.channel
	sess.mu.Unlock()

	cfg, err := e.store.LoadConfig(ctx, channel)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cfgLoaded {
		return sess.cfg
	}
	switch {
	case err != nil:
		e.logger.Warn("config_load_error", zap.String("room", channel), zap.Error(err))
		sess.cfg = e.opts.DefaultConfig
	case cfg == nil:
		sess.cfg = e.opts.DefaultConfig
	default:
		sess.cfg = *cfg
	}
	sess.cfgLoaded = true
	return sess.cfg
}

// Configure updates one room setting and persists it. Returns the chat reply.
func (e *Engine) Configure(ctx context.Context, channel, key, value string) string {
	sess := e.registry.get(channel)
	cfg := e.roomConfig(ctx, sess)

	applied, reason := applyConfigKey(&cfg, key, value)
	if !applied {
		return e.msgs.Text("config.invalid", map[string]any{"Reason": reason}, "잘못된 설정입니다: "+reason)
	}

	sess.mu.Lock()
	sess.cfg = cfg
	sess.mu.Unlock()

	if err := e.store.SaveConfig(ctx, channel, cfg); err != nil {
		e.logger.Warn("config_save_error", zap.String("room", channel), zap.Error(err))
	}
	return e.msgs.Text("config.updated", map[string]any{"Key": key, "Value": value},
		"설정이 변경되었습니다.")
}

// ResetConfig restores the room defaults.
func (e *Engine) ResetConfig(ctx context.Context, channel string) string {
	sess := e.registry.get(channel)
	cfg := e.opts.DefaultConfig

	sess.mu.Lock()
	sess.cfg = cfg
	sess.cfgLoaded = true
	sess.mu.Unlock()

	if err := e.store.SaveConfig(ctx, channel, cfg); err != nil {
		e.logger.Warn("config_save_error", zap.String("room", channel), zap.Error(err))
	}
	return e.msgs.Text("config.reset", nil, "설정이 기본값으로 초기화되었습니다.")
}

// ReloadConfig drops the cached config so the next touch re-reads the store.
func (e *Engine) ReloadConfig(ctx context.Context, channel string) string {
	sess := e.registry.get(channel)
	sess.mu.Lock()
	sess.cfgLoaded = false
	sess.mu.Unlock()
	e.roomConfig(ctx, sess)
	return e.ConfigText(ctx, channel)
}

// ConfigText renders the room's current settings.
func (e *Engine) ConfigText(ctx context.Context, channel string) string {
	sess := e.registry.get(channel)
	cfg := e.roomConfig(ctx, sess)
	scope := cfg.TopicScope
	if scope == "" {
		scope = "없음"
	}
	return e.msgs.Text("config.view", map[string]any{
		"Difficulty":       string(cfg.Difficulty),
		"TotalRounds":      cfg.TotalRounds,
		"HintIntervalSec":  cfg.HintIntervalSec,
		"RoundDurationMin": cfg.RoundDurationMin,
		"BasePoints":       cfg.BasePoints,
		"TimeBonus":        onOff(cfg.TimeBonus),
		"DifficultyBonus":  onOff(cfg.DifficultyBonus),
		"StreakBonus":      onOff(cfg.StreakBonus),
		"TopicScope":       scope,
	}, "게임 설정을 불러오지 못했습니다.")
}

func applyConfigKey(cfg *domain.GameConfig, key, value string) (bool, string) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "난이도", "difficulty":
		d, ok := domain.ParseDifficulty(value)
		if !ok {
			return false, "난이도는 쉬움/보통/어려움 중 하나입니다"
		}
		cfg.Difficulty = d
	case "라운드", "rounds":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > 10 {
			return false, "라운드 수는 1~10 사이여야 합니다"
		}
		cfg.TotalRounds = n
	case "힌트간격", "hint":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 10 || n > 600 {
			return false, "힌트 간격은 10~600초 사이여야 합니다"
		}
		cfg.HintIntervalSec = n
	case "제한시간", "duration":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > 30 {
			return false, "라운드 제한은 1~30분 사이여야 합니다"
		}
		cfg.RoundDurationMin = n
	case "기본점수", "points":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 || n > 1000 {
			return false, "기본 점수는 1~1000 사이여야 합니다"
		}
		cfg.BasePoints = n
	case "시간보너스", "timebonus":
		b, ok := parseOnOff(value)
		if !ok {
			return false, "켜기/끄기 중 하나를 입력해주세요"
		}
		cfg.TimeBonus = b
	case "난이도보너스", "diffbonus":
		b, ok := parseOnOff(value)
		if !ok {
			return false, "켜기/끄기 중 하나를 입력해주세요"
		}
		cfg.DifficultyBonus = b
	case "연승보너스", "streakbonus":
		b, ok := parseOnOff(value)
		if !ok {
			return false, "켜기/끄기 중 하나를 입력해주세요"
		}
		cfg.StreakBonus = b
	case "주제", "topic":
		v := strings.TrimSpace(value)
		if v == "없음" || v == "해제" {
			v = ""
		}
		cfg.TopicScope = v
	default:
		return false, "알 수 없는 설정 항목입니다: " + key
	}
	return true, ""
}

func parseOnOff(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "켜기", "true", "1":
		return true, true
	case "off", "끄기", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func onOff(b bool) string {
	if b {
		return "켜짐"
	}
	return "꺼짐"
}

// --- leaderboard -----------------------------------------------------------

// LeaderboardText renders the room's cumulative ranking.
func (e *Engine) LeaderboardText(ctx context.Context, channel string, limit int) string {
	if limit <= 0 {
		limit = 10
	}
	rows, err := e.store.Leaderboard(ctx, channel, limit)
	if err != nil {
		e.logger.Warn("leaderboard_error", zap.String("room", channel), zap.Error(err))
		return e.msgs.Text("error.user", map[string]any{"Reason": "랭킹을 불러오지 못했습니다."}, "랭킹을 불러오지 못했습니다.")
	}
	if len(rows) == 0 {
		return e.msgs.Text("leaderboard.empty", nil, "아직 랭킹 기록이 없습니다.")
	}
	header := e.msgs.Text("leaderboard.header", map[string]any{"Room": channel, "Limit": limit}, "랭킹")
	var b strings.Builder
	medals := []string{"🥇", "🥈", "🥉"}
	for i, row := range rows {
		medal := fmt.Sprintf("%d위", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.msgs.Text("leaderboard.entry", map[string]any{
			"Medal":  medal,
			"Name":   row.DisplayName,
			"Points": row.Points,
			"Wins":   row.Wins,
		}, fmt.Sprintf("%s %s — %d점", medal, row.DisplayName, row.Points)))
	}
	if len(rows) > 5 {
		// 긴 랭킹은 '전체보기' 아래로 접는다
		return util.ApplyKakaoSeeMorePadding(b.String(), header)
	}
	return header + "\n" + b.String()
}

// ClearLeaderboard wipes the room's ranking.
func (e *Engine) ClearLeaderboard(ctx context.Context, channel string) string {
	if err := e.store.ClearLeaderboard(ctx, channel); err != nil {
		e.logger.Warn("leaderboard_clear_error", zap.String("room", channel), zap.Error(err))
		return e.msgs.Text("error.user", map[string]any{"Reason": "랭킹 초기화에 실패했습니다."}, "랭킹 초기화에 실패했습니다.")
	}
	return e.msgs.Text("leaderboard.cleared", nil, "랭킹이 초기화되었습니다.")
}

// --- helpers ---------------------------------------------------------------

// Publish sends one chat message through the engine's transport with the
// usual length bound. The command layer uses it for non-game replies.
func (e *Engine) Publish(ctx context.Context, channel, text string) {
	e.publish(ctx, channel, text)
}

func (e *Engine) publish(ctx context.Context, channel, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	text = util.TruncateRunes(text, util.KakaoMessageRuneLimit)
	if err := e.transport.PublishMessage(ctx, channel, text); err != nil {
		e.logger.Warn("publish_error", zap.String("room", channel), zap.Error(err))
	}
}

func (e *Engine) hintInterval(cfg domain.GameConfig) time.Duration {
	if e.opts.HintInterval > 0 {
		return e.opts.HintInterval
	}
	if cfg.HintIntervalSec > 0 {
		return time.Duration(cfg.HintIntervalSec) * time.Second
	}
	return 60 * time.Second
}

func (e *Engine) roundDuration(cfg domain.GameConfig) time.Duration {
	if e.opts.RoundDuration > 0 {
		return e.opts.RoundDuration
	}
	if cfg.RoundDurationMin > 0 {
		return time.Duration(cfg.RoundDurationMin) * time.Minute
	}
	return 5 * time.Minute
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	m, s := total/60, total%60
	if m == 0 {
		return fmt.Sprintf("%d초", s)
	}
	return fmt.Sprintf("%d분 %d초", m, s)
}

package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

// errRoundAborted means a stop resolved the round while acquisition was in
// flight; the result is discarded and the stopper owns teardown.
var errRoundAborted = errors.New("round aborted during acquisition")

const acquireMaxAttempts = 3

// acquireRound selects fresh content and its opening hint for the session's
// current round. The exclusion list merges this session's used ids with the
// room's recent window; retries back off linearly. On success the content id
// is excluded immediately, before the hint call, so a mid-round failure can
// never reissue the same target.
func (e *Engine) acquireRound(ctx context.Context, sess *Session) (*domain.Content, string, EndReason, error) {
	sess.mu.Lock()
	if sess.phase != PhaseSelecting {
		sess.mu.Unlock()
		return nil, "", "", errRoundAborted
	}
	channel := sess.channel
	mode := sess.mode
	scope := sess.scope
	difficulty := sess.cfg.Difficulty
	used := make(map[string]struct{}, len(sess.excluded))
	for id := range sess.excluded {
		used[id] = struct{}{}
	}
	sess.mu.Unlock()

	recent, err := e.store.RecentContentKeys(ctx, channel, mode, e.opts.RecentLimit)
	if err != nil {
		// 최근 기록을 못 읽어도 게임은 진행한다
		e.logger.Warn("recent_window_error", zap.String("room", channel), zap.Error(err))
	}
	for _, id := range recent {
		used[id] = struct{}{}
	}
	exclusions := make([]string, 0, len(used))
	for id := range used {
		exclusions = append(exclusions, id)
	}

	var content *domain.Content
	for attempt := 1; attempt <= acquireMaxAttempts; attempt++ {
		c, err := e.provider.SelectContent(ctx, mode, scope, difficulty, exclusions)
		if err == nil && c != nil && strings.TrimSpace(c.ID) != "" {
			if _, dup := used[c.ID]; !dup {
				content = c
				break
			}
			err = errors.New("provider returned excluded content: " + c.ID)
		}
		e.logger.Warn("content_select_retry",
			zap.String("room", channel),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < acquireMaxAttempts {
			time.Sleep(e.opts.AcquireBackoff * time.Duration(attempt))
		}
	}
	if content == nil {
		return nil, "", EndContentError, errors.New("content selection exhausted")
	}

	sess.mu.Lock()
	if sess.phase != PhaseSelecting {
		sess.mu.Unlock()
		return nil, "", "", errRoundAborted
	}
	sess.excluded[content.ID] = struct{}{}
	sess.mu.Unlock()

	hint, err := e.provider.InitialHint(ctx, content, mode, scope, difficulty)
	if err != nil || strings.TrimSpace(hint) == "" {
		if err == nil {
			err = errors.New("empty initial hint")
		}
		e.logger.Error("initial_hint_error", zap.String("room", channel), zap.Error(err))
		return nil, "", EndClueError, err
	}
	return content, hint, "", nil
}

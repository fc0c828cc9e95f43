package game

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/provider"
)

const wrongReasonCap = 5

// SubmitGuess runs one chat message through the guess pipeline: throttle,
// normalization, wrong-guess cache, local pre-match, then the remote
// verifier. A correct verdict resolves the round unless something else
// resolved it while the verifier call was in flight.
func (e *Engine) SubmitGuess(ctx context.Context, channel, userID, displayName, text string) {
	sess := e.registry.peek(channel)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	if sess.phase != PhaseInProgress {
		sess.mu.Unlock()
		return
	}
	now := time.Now()
	if e.opts.GuessThrottle > 0 && !sess.round.lastGuessAt.IsZero() &&
		now.Sub(sess.round.lastGuessAt) < e.opts.GuessThrottle {
		sess.mu.Unlock()
		return
	}

	norm := NormalizeGuess(text)
	if norm == "" {
		sess.mu.Unlock()
		return
	}
	if _, seen := sess.round.guessCache[norm]; seen {
		// 이미 오답 판정을 받은 표현은 다시 검증하지 않는다
		sess.mu.Unlock()
		return
	}
	// 스로틀 기준은 마지막으로 접수된 추측이다. 공백/캐시 적중은 재장전하지 않는다.
	sess.round.lastGuessAt = now
	content := sess.round.content
	epoch := sess.timerEpoch
	startedAt := sess.round.startedAt
	sess.mu.Unlock()

	if PreMatch(norm, content.Label, content.Alternates, e.opts.Thresholds) {
		e.logger.Info("guess_prematch_hit", zap.String("room", channel), zap.String("user", userID))
		e.applyVerdict(ctx, sess, epoch, userID, displayName, norm, startedAt,
			&provider.Verdict{IsCorrect: true, Confidence: 1})
		return
	}

	sent := text
	if e.translator != nil {
		if tr, err := e.translator.Translate(ctx, text); err != nil {
			e.logger.Debug("guess_translate_fallback", zap.Error(err))
		} else if strings.TrimSpace(tr) != "" {
			sent = tr
		}
	}

	verdict, err := e.provider.VerifyGuess(ctx, content, sent)
	if err != nil || verdict == nil {
		// 검증 실패는 "이번엔 오답"으로 취급하되 캐시하지 않는다
		e.logger.Warn("guess_verify_error", zap.String("room", channel), zap.Error(err))
		return
	}
	e.applyVerdict(ctx, sess, epoch, userID, displayName, norm, startedAt, verdict)
}

// applyVerdict re-enters the session after verification and either records a
// wrong guess or wins the resolution race.
func (e *Engine) applyVerdict(ctx context.Context, sess *Session, epoch uint64, userID, displayName, norm string, startedAt time.Time, v *provider.Verdict) {
	sess.mu.Lock()
	if epoch != sess.timerEpoch || sess.phase != PhaseInProgress {
		// 검증 중에 라운드가 먼저 끝났다
		sess.mu.Unlock()
		return
	}
	if !v.IsCorrect {
		sess.round.guessCache[norm] = false
		sess.round.wrongGuessCount++
		if reason := strings.TrimSpace(v.Reasoning); reason != "" {
			sess.round.wrongReasons = appendBounded(sess.round.wrongReasons, reason, wrongReasonCap)
		}
		sess.mu.Unlock()
		return
	}
	sess.round.winnerID = userID
	sess.round.winnerName = displayName
	sess.round.winnerElapsed = time.Since(startedAt)
	sess.resolveLocked(EndGuessed)
	sess.mu.Unlock()
	e.finishRound(ctx, sess)
}

// appendBounded keeps the most recent entries, dropping the oldest past limit.
func appendBounded(list []string, v string, limit int) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	list = append(list, v)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}

package game

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/provider"
)

// armTimersLocked schedules the hint and round-end timers for the current
// round. Caller holds sess.mu. The captured epoch makes callbacks from a
// previous round harmless.
func (e *Engine) armTimersLocked(sess *Session) {
	epoch := sess.timerEpoch
	sess.hintTimer = time.AfterFunc(e.hintInterval(sess.cfg), func() {
		e.onHintTimer(sess, epoch)
	})
	sess.roundTimer = time.AfterFunc(e.roundDuration(sess.cfg), func() {
		e.onRoundTimer(sess, epoch)
	})
}

func (e *Engine) rescheduleHintLocked(sess *Session, epoch uint64) {
	sess.hintTimer = time.AfterFunc(e.hintInterval(sess.cfg), func() {
		e.onHintTimer(sess, epoch)
	})
}

// onHintTimer generates and publishes a follow-up hint. Generation failures
// never end the round; the timer just rearms.
func (e *Engine) onHintTimer(sess *Session, epoch uint64) {
	ctx := context.Background()

	sess.mu.Lock()
	if epoch != sess.timerEpoch || sess.phase != PhaseInProgress {
		sess.mu.Unlock()
		return
	}
	if len(sess.round.hints) >= e.opts.HintCap {
		sess.mu.Unlock()
		return
	}
	channel := sess.channel
	req := provider.HintRequest{
		Content:      sess.round.content,
		Mode:         sess.mode,
		Scope:        sess.scope,
		Difficulty:   sess.cfg.Difficulty,
		PriorHints:   append([]string(nil), sess.round.hints...),
		HintIndex:    len(sess.round.hints) + 1,
		WrongReasons: append([]string(nil), sess.round.wrongReasons...),
	}
	sess.mu.Unlock()

	hint, err := e.provider.FollowUpHint(ctx, req)

	sess.mu.Lock()
	if epoch != sess.timerEpoch || sess.phase != PhaseInProgress {
		sess.mu.Unlock()
		return
	}
	if err != nil || strings.TrimSpace(hint) == "" {
		e.logger.Warn("hint_generate_error", zap.String("room", channel), zap.Error(err))
		e.rescheduleHintLocked(sess, epoch)
		sess.mu.Unlock()
		return
	}
	sess.round.hints = append(sess.round.hints, hint)
	index := len(sess.round.hints)
	if index < e.opts.HintCap {
		e.rescheduleHintLocked(sess, epoch)
	}
	// 잠금을 쥔 채 발행한다: 정답/시간종료 공지가 이 힌트를 앞지르면 안 된다.
	e.publish(ctx, channel, e.msgs.Text("game.hint",
		map[string]any{"Index": index, "Hint": hint},
		"힌트: "+hint))
	sess.mu.Unlock()
}

// onRoundTimer ends the round by timeout, unless a guess or stop resolved it
// first.
func (e *Engine) onRoundTimer(sess *Session, epoch uint64) {
	sess.mu.Lock()
	if epoch != sess.timerEpoch || sess.phase != PhaseInProgress {
		sess.mu.Unlock()
		return
	}
	sess.resolveLocked(EndTimeout)
	sess.mu.Unlock()
	e.finishRound(context.Background(), sess)
}

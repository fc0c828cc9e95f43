package game

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

// pendingReport is a reporter waiting to pick a round number.
type pendingReport struct {
	reason    string
	snapshot  *domain.SessionSnapshot
	expiresAt time.Time
}

// reportDesk tracks one pending report per (room, reporter). Expiry is lazy:
// entries die on next touch.
type reportDesk struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]*pendingReport
}

func newReportDesk(ttl time.Duration) *reportDesk {
	return &reportDesk{ttl: ttl, pending: make(map[string]*pendingReport)}
}

func deskKey(channel, reporter string) string { return channel + "|" + reporter }

func (d *reportDesk) put(channel, reporter, reason string, snap *domain.SessionSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[deskKey(channel, reporter)] = &pendingReport{
		reason:    reason,
		snapshot:  snap,
		expiresAt: time.Now().Add(d.ttl),
	}
}

func (d *reportDesk) take(channel, reporter string) (*pendingReport, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := deskKey(channel, reporter)
	p, ok := d.pending[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(p.expiresAt) {
		delete(d.pending, key)
		return nil, true // existed but expired
	}
	return p, true
}

func (d *reportDesk) drop(channel, reporter string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, deskKey(channel, reporter))
}

func (d *reportDesk) has(channel, reporter string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[deskKey(channel, reporter)]
	return ok
}

// HasPendingReport reports whether the user's next plain message should be
// routed to FinalizeReport.
func (e *Engine) HasPendingReport(channel, reporter string) bool {
	return e.reports.has(channel, reporter)
}

// InitiateReport flags bad content from the room's latest finished session.
// Single-round sessions flag immediately; multi-round sessions ask the
// reporter to pick a round number.
func (e *Engine) InitiateReport(ctx context.Context, channel, reporter, reason string) {
	snap, err := e.store.LatestSession(ctx, channel)
	if err != nil {
		e.logger.Warn("report_snapshot_error", zap.String("room", channel), zap.Error(err))
	}
	if snap == nil || len(snap.Rounds) == 0 {
		e.publish(ctx, channel, e.msgs.Text("report.none", nil, "신고할 최근 게임 기록이 없습니다."))
		return
	}
	if len(snap.Rounds) == 1 {
		e.flagRound(ctx, channel, reporter, reason, snap.Rounds[0])
		return
	}
	e.reports.put(channel, reporter, reason, snap)
	e.publish(ctx, channel, e.msgs.Text("report.choose",
		map[string]any{"Items": snap.Rounds},
		"어느 라운드를 신고하시겠어요? 번호로 답해주세요."))
}

// FinalizeReport consumes the reporter's round-number reply. Returns false if
// no pending report exists, so the caller can treat the message as a guess.
func (e *Engine) FinalizeReport(ctx context.Context, channel, reporter, text string) bool {
	p, existed := e.reports.take(channel, reporter)
	if !existed {
		return false
	}
	if p == nil {
		e.publish(ctx, channel, e.msgs.Text("report.expired", nil, "신고 대기 시간이 지났습니다."))
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		e.publish(ctx, channel, e.msgs.Text("report.invalid_number", nil, "잘못된 라운드 번호입니다."))
		return true
	}
	for _, r := range p.snapshot.Rounds {
		if r.Round == n {
			e.reports.drop(channel, reporter)
			e.flagRound(ctx, channel, reporter, p.reason, r)
			return true
		}
	}
	e.publish(ctx, channel, e.msgs.Text("report.invalid_number", nil, "잘못된 라운드 번호입니다."))
	return true
}

func (e *Engine) flagRound(ctx context.Context, channel, reporter, reason string, round domain.SessionRound) {
	if err := e.store.FlagContent(ctx, round.ContentID, reason, reporter); err != nil {
		// 저장 실패는 기록만 하고 접수 응답은 유지한다
		e.logger.Warn("report_flag_error",
			zap.String("room", channel),
			zap.String("content_id", round.ContentID),
			zap.Error(err))
	}
	e.logger.Info("content_reported",
		zap.String("room", channel),
		zap.String("content_id", round.ContentID),
		zap.String("reporter", reporter))
	e.publish(ctx, channel, e.msgs.Text("report.flagged",
		map[string]any{"Label": round.Label},
		"신고가 접수되었습니다."))
}

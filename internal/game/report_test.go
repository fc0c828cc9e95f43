package game

import (
	"context"
	"testing"
	"time"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

func seedSnapshot(h *harness, rounds ...domain.SessionRound) {
	h.store.mu.Lock()
	h.store.snapshot = &domain.SessionSnapshot{
		SessionID: "s1",
		Channel:   "roomA",
		Mode:      domain.ModeGeo,
		Rounds:    rounds,
		EndedAt:   time.Now(),
	}
	h.store.mu.Unlock()
}

func flaggedIDs(h *harness) []string {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]string(nil), h.store.flagged...)
}

func TestReport_NoHistory(t *testing.T) {
	h := newHarness(t, &fakeProvider{}, Options{})
	h.engine.InitiateReport(context.Background(), "roomA", "u1", "틀린 정보")
	if !h.transport.contains("신고할 최근 게임 기록이 없습니다") {
		t.Fatal("no-history notice missing")
	}
}

func TestReport_SingleRoundFlagsImmediately(t *testing.T) {
	h := newHarness(t, &fakeProvider{}, Options{})
	seedSnapshot(h, domain.SessionRound{Round: 1, ContentID: "c1", Label: "서울"})

	h.engine.InitiateReport(context.Background(), "roomA", "u1", "틀린 정보")
	if got := flaggedIDs(h); len(got) != 1 || got[0] != "c1" {
		t.Fatalf("flagged = %v, want [c1]", got)
	}
	if !h.transport.contains("신고가 접수되었습니다") {
		t.Fatal("flagged confirmation missing")
	}
	if h.engine.HasPendingReport("roomA", "u1") {
		t.Fatal("single-round report must not leave a pending entry")
	}
}

func TestReport_MultiRoundChoose(t *testing.T) {
	h := newHarness(t, &fakeProvider{}, Options{})
	seedSnapshot(h,
		domain.SessionRound{Round: 1, ContentID: "c1", Label: "서울"},
		domain.SessionRound{Round: 2, ContentID: "c2", Label: "부산"},
	)
	ctx := context.Background()

	h.engine.InitiateReport(ctx, "roomA", "u1", "중복 출제")
	if !h.transport.contains("어느 라운드를 신고하시겠어요") {
		t.Fatal("round-choice prompt missing")
	}
	if !h.engine.HasPendingReport("roomA", "u1") {
		t.Fatal("pending report expected")
	}

	// 잘못된 번호는 대기를 유지한다
	if !h.engine.FinalizeReport(ctx, "roomA", "u1", "9") {
		t.Fatal("invalid number should still be consumed as a report reply")
	}
	if !h.transport.contains("잘못된 라운드 번호") {
		t.Fatal("invalid-number notice missing")
	}
	if !h.engine.HasPendingReport("roomA", "u1") {
		t.Fatal("pending report should survive an invalid number")
	}

	if !h.engine.FinalizeReport(ctx, "roomA", "u1", "2") {
		t.Fatal("valid number should finalize")
	}
	if got := flaggedIDs(h); len(got) != 1 || got[0] != "c2" {
		t.Fatalf("flagged = %v, want [c2]", got)
	}
	if h.engine.HasPendingReport("roomA", "u1") {
		t.Fatal("pending report should be cleared after flagging")
	}
}

func TestReport_Expiry(t *testing.T) {
	h := newHarness(t, &fakeProvider{}, Options{ReportTTL: 20 * time.Millisecond})
	seedSnapshot(h,
		domain.SessionRound{Round: 1, ContentID: "c1", Label: "서울"},
		domain.SessionRound{Round: 2, ContentID: "c2", Label: "부산"},
	)
	ctx := context.Background()

	h.engine.InitiateReport(ctx, "roomA", "u1", "오타")
	time.Sleep(40 * time.Millisecond)

	if !h.engine.FinalizeReport(ctx, "roomA", "u1", "1") {
		t.Fatal("expired report reply should still be consumed once")
	}
	if !h.transport.contains("신고 대기 시간이 지났습니다") {
		t.Fatal("expiry notice missing")
	}
	if len(flaggedIDs(h)) != 0 {
		t.Fatal("expired report must not flag content")
	}
	// 만료 항목 제거 후에는 일반 메시지로 취급
	if h.engine.FinalizeReport(ctx, "roomA", "u1", "1") {
		t.Fatal("second reply after expiry should not be treated as a report")
	}
}

func TestReport_NonReporterUnaffected(t *testing.T) {
	h := newHarness(t, &fakeProvider{}, Options{})
	seedSnapshot(h,
		domain.SessionRound{Round: 1, ContentID: "c1", Label: "서울"},
		domain.SessionRound{Round: 2, ContentID: "c2", Label: "부산"},
	)
	ctx := context.Background()

	h.engine.InitiateReport(ctx, "roomA", "u1", "틀린 정보")
	if h.engine.FinalizeReport(ctx, "roomA", "u2", "1") {
		t.Fatal("another user's message must not finalize the report")
	}
	if len(flaggedIDs(h)) != 0 {
		t.Fatal("nothing should be flagged")
	}
}

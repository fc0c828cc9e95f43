package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
	"github.com/kapu/kakao-guess-bot-go/internal/msgcat"
	"github.com/kapu/kakao-guess-bot-go/internal/provider"
)

// --- fakes -----------------------------------------------------------------

type fakeProvider struct {
	mu             sync.Mutex
	contents       []*domain.Content
	selectFails    int // leading SelectContent failures
	selectCalls    int
	verifyCalls    int
	verifyCorrect  map[string]bool // guess text → verdict
	exclusionsSeen [][]string

	// verifyEntered/verifyGate let a test hold a verification in flight.
	verifyEntered chan struct{}
	verifyGate    chan struct{}
}

func (p *fakeProvider) SelectContent(_ context.Context, _ domain.GameMode, _ string, _ domain.Difficulty, exclusions []string) (*domain.Content, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectCalls++
	p.exclusionsSeen = append(p.exclusionsSeen, append([]string(nil), exclusions...))
	if p.selectFails > 0 {
		p.selectFails--
		return nil, errors.New("generator unavailable")
	}
	if len(p.contents) == 0 {
		return nil, provider.ErrNoContent
	}
	c := p.contents[0]
	p.contents = p.contents[1:]
	return c, nil
}

func (p *fakeProvider) InitialHint(_ context.Context, c *domain.Content, _ domain.GameMode, _ string, _ domain.Difficulty) (string, error) {
	return "첫 힌트: " + c.ID, nil
}

func (p *fakeProvider) FollowUpHint(_ context.Context, req provider.HintRequest) (string, error) {
	return "추가 힌트", nil
}

func (p *fakeProvider) Reveal(_ context.Context, _ *domain.Content, _ domain.GameMode, _ string, _ string) (string, error) {
	return "", nil
}

func (p *fakeProvider) VerifyGuess(_ context.Context, _ *domain.Content, guess string) (*provider.Verdict, error) {
	p.mu.Lock()
	p.verifyCalls++
	correct := p.verifyCorrect[guess]
	entered, gate := p.verifyEntered, p.verifyGate
	p.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if correct {
		return &provider.Verdict{IsCorrect: true, Confidence: 0.95}, nil
	}
	return &provider.Verdict{IsCorrect: false, Confidence: 0.9, Reasoning: "오답"}, nil
}

func (p *fakeProvider) countVerify() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verifyCalls
}

func (p *fakeProvider) countSelect() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selectCalls
}

type fakeStore struct {
	mu       sync.Mutex
	rounds   []*domain.RoundRecord
	scores   map[string]int
	recent   []string
	snapshot *domain.SessionSnapshot
	flagged  []string
	configs  map[string]domain.GameConfig
}

func newFakeStore() *fakeStore {
	return &fakeStore{scores: make(map[string]int), configs: make(map[string]domain.GameConfig)}
}

func (s *fakeStore) LoadConfig(_ context.Context, channel string) (*domain.GameConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[channel]; ok {
		return &cfg, nil
	}
	return nil, nil
}

func (s *fakeStore) SaveConfig(_ context.Context, channel string, cfg domain.GameConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[channel] = cfg
	return nil
}

func (s *fakeStore) RecordRound(_ context.Context, rec *domain.RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, rec)
	return nil
}

func (s *fakeStore) UpdateScore(_ context.Context, _, userID, _ string, points int, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userID] += points
	return nil
}

func (s *fakeStore) Leaderboard(_ context.Context, _ string, _ int) ([]domain.ScoreRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScoreRow, 0, len(s.scores))
	for uid, pts := range s.scores {
		out = append(out, domain.ScoreRow{UserID: uid, DisplayName: uid, Points: pts})
	}
	return out, nil
}

func (s *fakeStore) ClearLeaderboard(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = make(map[string]int)
	return nil
}

func (s *fakeStore) FlagContent(_ context.Context, contentID, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flagged = append(s.flagged, contentID)
	return nil
}

func (s *fakeStore) RecentContentKeys(_ context.Context, _ string, _ domain.GameMode, _ int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recent...), nil
}

func (s *fakeStore) PushRecentContentKey(_ context.Context, _ string, _ domain.GameMode, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append([]string{contentID}, s.recent...)
	return nil
}

func (s *fakeStore) SaveLatestSession(_ context.Context, snap *domain.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	return nil
}

func (s *fakeStore) LatestSession(_ context.Context, _ string) (*domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, nil
}

func (s *fakeStore) roundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rounds)
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []string
}

func (t *fakeTransport) PublishMessage(_ context.Context, _, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, text)
	return nil
}

func (t *fakeTransport) contains(sub string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.sent {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (t *fakeTransport) count(sub string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.sent {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}

func (t *fakeTransport) indexOf(sub string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.sent {
		if strings.Contains(s, sub) {
			return i
		}
	}
	return -1
}

// gatedTransport stalls the first message containing gateSub until released,
// so tests can pin down message-ordering windows.
type gatedTransport struct {
	fakeTransport
	gateSub string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (t *gatedTransport) PublishMessage(ctx context.Context, channel, text string) error {
	if strings.Contains(text, t.gateSub) {
		t.once.Do(func() {
			t.entered <- struct{}{}
			<-t.release
		})
	}
	return t.fakeTransport.PublishMessage(ctx, channel, text)
}

// --- harness ---------------------------------------------------------------

type harness struct {
	engine    *Engine
	provider  *fakeProvider
	store     *fakeStore
	transport *fakeTransport
}

func newHarness(t *testing.T, p *fakeProvider, opts Options) *harness {
	t.Helper()
	msgs, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	st := newFakeStore()
	tp := &fakeTransport{}
	if opts.InterRoundDelay == 0 {
		opts.InterRoundDelay = 10 * time.Millisecond
	}
	if opts.GuessThrottle == 0 {
		opts.GuessThrottle = -1 // 테스트는 연속 추측을 허용
	}
	if opts.AcquireBackoff == 0 {
		opts.AcquireBackoff = time.Millisecond
	}
	if opts.HintInterval == 0 {
		opts.HintInterval = time.Hour
	}
	if opts.RoundDuration == 0 {
		opts.RoundDuration = time.Hour
	}
	eng := NewEngine(p, provider.NopTranslator{}, st, tp, msgs, zap.NewNop(), opts)
	return &harness{engine: eng, provider: p, store: st, transport: tp}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func content(id, label string, alts ...string) *domain.Content {
	return &domain.Content{ID: id, Label: label, Alternates: alts}
}

// --- tests -----------------------------------------------------------------

func TestSingleRound_CorrectGuessEndsSession(t *testing.T) {
	p := &fakeProvider{
		contents:      []*domain.Content{content("c1", "남산타워")},
		verifyCorrect: map[string]bool{"엔서울타워": true},
	}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !h.transport.contains("1/1라운드 시작") {
		t.Fatal("round start announcement missing")
	}

	h.engine.SubmitGuess(ctx, "roomA", "u2", "영희", "엔서울타워")

	if !h.transport.contains("영희님이 맞혔습니다") {
		t.Fatal("correct-guess announcement missing")
	}
	if !h.transport.contains("최종 점수") {
		t.Fatal("final scores missing")
	}
	if h.engine.HasActiveSession("roomA") {
		t.Fatal("session should be idle after the last round")
	}
	if got := h.store.roundCount(); got != 1 {
		t.Fatalf("recorded rounds = %d, want 1", got)
	}
	h.store.mu.Lock()
	rec := h.store.rounds[0]
	pts := h.store.scores["u2"]
	h.store.mu.Unlock()
	if rec.Result != "guessed" || rec.WinnerID != "u2" {
		t.Fatalf("round record = %+v", rec)
	}
	if pts != rec.Points || pts < 1 {
		t.Fatalf("persisted points = %d, record points = %d", pts, rec.Points)
	}
}

func TestDuplicateStart_KeepsRunningSession(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울"), content("c2", "부산")}}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 3); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	selects := p.countSelect()

	// 같은 시작자: 진행 상황 안내만
	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 3); err != nil {
		t.Fatalf("duplicate start by initiator: %v", err)
	}
	if !h.transport.contains("이미 진행 중인 게임") {
		t.Fatal("already-running notice missing")
	}

	// 다른 사용자: 거절
	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u2", "영희", 3); err != ErrSessionActive {
		t.Fatalf("start by other user = %v, want ErrSessionActive", err)
	}
	if p.countSelect() != selects {
		t.Fatal("duplicate start must not acquire new content")
	}

	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestStopSession_PublishesFinalScoresAndResets(t *testing.T) {
	p := &fakeProvider{
		contents:      []*domain.Content{content("c1", "서울"), content("c2", "부산")},
		verifyCorrect: map[string]bool{"서울": true},
	}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 3); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	// 1라운드 정답 → 10ms 후 2라운드 시작
	h.engine.SubmitGuess(ctx, "roomA", "u1", "철수", "서울")
	waitFor(t, time.Second, func() bool { return h.transport.contains("2/3라운드 시작") })

	if err := h.engine.StopSession(ctx, "roomA", "u1"); err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	if !h.transport.contains("게임이 중지되었습니다") {
		t.Fatal("stop announcement missing")
	}
	if !h.transport.contains("최종 점수") || !h.transport.contains("철수") {
		t.Fatal("final scores should list the scorer")
	}
	if h.engine.HasActiveSession("roomA") {
		t.Fatal("session should be idle after stop")
	}

	// 중지 라운드도 기록된다
	if got := h.store.roundCount(); got != 2 {
		t.Fatalf("recorded rounds = %d, want 2", got)
	}
}

func TestStopSession_NoSession(t *testing.T) {
	p := &fakeProvider{}
	h := newHarness(t, p, Options{})
	if err := h.engine.StopSession(context.Background(), "roomA", "u1"); err != ErrNoSession {
		t.Fatalf("StopSession = %v, want ErrNoSession", err)
	}
	if !h.transport.contains("진행 중인 게임이 없습니다") {
		t.Fatal("no-session notice missing")
	}
}

func TestGuess_IgnoredWithoutActiveRound(t *testing.T) {
	p := &fakeProvider{verifyCorrect: map[string]bool{"서울": true}}
	h := newHarness(t, p, Options{})
	h.engine.SubmitGuess(context.Background(), "roomA", "u1", "철수", "서울")
	if p.countVerify() != 0 {
		t.Fatal("verifier must not be called without an active round")
	}
}

func TestGuess_WrongAnswerCachedPerRound(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	h.engine.SubmitGuess(ctx, "roomA", "u1", "철수", "부산")
	h.engine.SubmitGuess(ctx, "roomA", "u2", "영희", "부산!") // 같은 정규형
	if got := p.countVerify(); got != 1 {
		t.Fatalf("verify calls = %d, want 1 (cached wrong guess)", got)
	}
	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestGuess_PreMatchSkipsVerifier(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "남산타워", "N서울타워")}}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	h.engine.SubmitGuess(ctx, "roomA", "u1", "철수", "남산타워!")
	if p.countVerify() != 0 {
		t.Fatal("obvious match must resolve without the verifier")
	}
	if h.engine.HasActiveSession("roomA") {
		t.Fatal("session should end after the pre-matched final round")
	}
}

func TestGuessThrottle_DropsRapidGuesses(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{GuessThrottle: time.Hour})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	h.engine.SubmitGuess(ctx, "roomA", "u1", "철수", "부산")
	h.engine.SubmitGuess(ctx, "roomA", "u2", "영희", "대구")
	if got := p.countVerify(); got != 1 {
		t.Fatalf("verify calls = %d, want 1 (second guess throttled)", got)
	}
	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestRoundTimeout_AdvancesWithExclusions(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울"), content("c2", "부산")}}
	h := newHarness(t, p, Options{RoundDuration: 60 * time.Millisecond})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 2); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return !h.engine.HasActiveSession("roomA") })

	if got := h.transport.count("시간 종료"); got != 2 {
		t.Fatalf("timeout announcements = %d, want 2", got)
	}
	if !h.transport.contains("득점자가 없습니다") {
		t.Fatal("no-scores ending missing")
	}

	// 2라운드 선택에는 1라운드 콘텐츠가 제외 목록에 있어야 한다
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.exclusionsSeen) < 2 {
		t.Fatalf("selects seen = %d, want >= 2", len(p.exclusionsSeen))
	}
	found := false
	for _, id := range p.exclusionsSeen[len(p.exclusionsSeen)-1] {
		if id == "c1" {
			found = true
		}
	}
	if !found {
		t.Fatal("second round exclusions missing first round's content id")
	}
}

func TestAcquisitionFailure_EndsSessionWithApology(t *testing.T) {
	p := &fakeProvider{selectFails: 99}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 3); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if got := p.countSelect(); got != acquireMaxAttempts {
		t.Fatalf("select attempts = %d, want %d", got, acquireMaxAttempts)
	}
	if !h.transport.contains("문제를 준비하지 못해") {
		t.Fatal("generation-error apology missing")
	}
	if h.engine.HasActiveSession("roomA") {
		t.Fatal("session should be idle after acquisition failure")
	}
	if got := h.store.roundCount(); got != 0 {
		t.Fatalf("recorded rounds = %d, want 0", got)
	}
}

func TestAcquisition_RetriesThenSucceeds(t *testing.T) {
	p := &fakeProvider{selectFails: 2, contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !h.transport.contains("라운드 시작") {
		t.Fatal("round should start after retries")
	}
	if got := p.countSelect(); got != 3 {
		t.Fatalf("select attempts = %d, want 3", got)
	}
	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestHintTimer_PublishesFollowUpHints(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{HintInterval: 30 * time.Millisecond})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return h.transport.count("추가 힌트") >= 2 })
	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestConfigure_PersistsAndValidates(t *testing.T) {
	p := &fakeProvider{}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	out := h.engine.Configure(ctx, "roomA", "난이도", "어려움")
	if !strings.Contains(out, "변경") {
		t.Fatalf("Configure = %q, want update notice", out)
	}
	h.store.mu.Lock()
	saved := h.store.configs["roomA"]
	h.store.mu.Unlock()
	if saved.Difficulty != domain.DifficultyHard {
		t.Fatalf("saved difficulty = %q, want hard", saved.Difficulty)
	}

	out = h.engine.Configure(ctx, "roomA", "라운드", "99")
	if !strings.Contains(out, "잘못된 설정") {
		t.Fatalf("Configure invalid = %q, want rejection", out)
	}

	out = h.engine.ResetConfig(ctx, "roomA")
	if !strings.Contains(out, "초기화") {
		t.Fatalf("ResetConfig = %q", out)
	}
	view := h.engine.ConfigText(ctx, "roomA")
	if !strings.Contains(view, "게임 설정") {
		t.Fatalf("ConfigText = %q", view)
	}
}

func TestTimerGuessRace_SingleResolution(t *testing.T) {
	p := &fakeProvider{
		contents:      []*domain.Content{content("c1", "서울")},
		verifyCorrect: map[string]bool{"한강의 도시": true},
		verifyEntered: make(chan struct{}, 1),
		verifyGate:    make(chan struct{}),
	}
	h := newHarness(t, p, Options{RoundDuration: 30 * time.Millisecond})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	done := make(chan struct{})
	go func() {
		// 사전 매칭에 걸리지 않는 정답 표현: 검증기까지 간다
		h.engine.SubmitGuess(ctx, "roomA", "u2", "영희", "한강의 도시")
		close(done)
	}()
	<-p.verifyEntered

	// 검증이 묶여 있는 동안 라운드 타이머가 먼저 만료된다
	waitFor(t, 2*time.Second, func() bool { return h.transport.contains("시간 종료") })
	close(p.verifyGate)
	<-done

	// 해소는 정확히 한 번: 늦게 도착한 정답 판정은 버려진다
	if got := h.transport.count("시간 종료"); got != 1 {
		t.Fatalf("timeout announcements = %d, want 1", got)
	}
	if h.transport.contains("맞혔습니다") {
		t.Fatal("late verdict must not produce a second resolution")
	}
	if got := h.store.roundCount(); got != 1 {
		t.Fatalf("recorded rounds = %d, want 1", got)
	}
	h.store.mu.Lock()
	result := h.store.rounds[0].Result
	h.store.mu.Unlock()
	if result != "timeout" {
		t.Fatalf("recorded result = %q, want timeout", result)
	}
	if h.engine.HasActiveSession("roomA") {
		t.Fatal("session should be idle after the race")
	}
}

func TestGuessThrottle_ArmsOnlyOnAcceptedGuesses(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{GuessThrottle: 50 * time.Millisecond})
	ctx := context.Background()

	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	h.engine.SubmitGuess(ctx, "roomA", "u1", "철수", "부산")
	if got := p.countVerify(); got != 1 {
		t.Fatalf("verify calls = %d, want 1", got)
	}

	time.Sleep(60 * time.Millisecond)
	// 캐시 적중과 공백 정규형은 스로틀을 재장전하지 않는다
	h.engine.SubmitGuess(ctx, "roomA", "u2", "영희", "부산")
	h.engine.SubmitGuess(ctx, "roomA", "u3", "민수", "!!!")
	h.engine.SubmitGuess(ctx, "roomA", "u4", "지연", "대구")
	if got := p.countVerify(); got != 2 {
		t.Fatalf("verify calls = %d, want 2 (fresh guess must not be starved)", got)
	}
	_ = h.engine.StopSession(ctx, "roomA", "u1")
}

func TestHintPublish_OrderedBeforeResolution(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	msgs, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	st := newFakeStore()
	tp := &gatedTransport{
		gateSub: "추가 힌트",
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	eng := NewEngine(p, provider.NopTranslator{}, st, tp, msgs, zap.NewNop(), Options{
		InterRoundDelay: 10 * time.Millisecond,
		GuessThrottle:   -1,
		AcquireBackoff:  time.Millisecond,
		HintInterval:    20 * time.Millisecond,
		RoundDuration:   time.Hour,
	})
	ctx := context.Background()

	if err := eng.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	<-tp.entered // 힌트 발행이 잠금을 쥔 채 멈춰 있다

	done := make(chan struct{})
	go func() {
		eng.SubmitGuess(ctx, "roomA", "u2", "영희", "서울") // 사전 매칭 정답, 잠금 대기
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	close(tp.release)
	<-done

	hintIdx := tp.indexOf("추가 힌트")
	winIdx := tp.indexOf("맞혔습니다")
	if hintIdx == -1 || winIdx == -1 {
		t.Fatalf("expected both hint and reveal: hint=%d reveal=%d", hintIdx, winIdx)
	}
	if hintIdx > winIdx {
		t.Fatalf("hint published after reveal: hint=%d reveal=%d", hintIdx, winIdx)
	}
}

func TestCurrentInitiator(t *testing.T) {
	p := &fakeProvider{contents: []*domain.Content{content("c1", "서울")}}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if _, ok := h.engine.CurrentInitiator("roomA"); ok {
		t.Fatal("no initiator expected before a session starts")
	}
	if err := h.engine.StartSession(ctx, "roomA", domain.ModeGeo, "", "u1", "철수", 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	id, ok := h.engine.CurrentInitiator("roomA")
	if !ok || id != "u1" {
		t.Fatalf("CurrentInitiator = (%q, %v), want (u1, true)", id, ok)
	}
	_ = h.engine.StopSession(ctx, "roomA", "u1")
	if _, ok := h.engine.CurrentInitiator("roomA"); ok {
		t.Fatal("initiator should clear after the session ends")
	}
}

func TestLeaderboardText(t *testing.T) {
	p := &fakeProvider{}
	h := newHarness(t, p, Options{})
	ctx := context.Background()

	if out := h.engine.LeaderboardText(ctx, "roomA", 10); !strings.Contains(out, "아직 랭킹 기록이 없습니다") {
		t.Fatalf("empty leaderboard = %q", out)
	}
	_ = h.store.UpdateScore(ctx, "roomA", "u1", "철수", 33, true)
	if out := h.engine.LeaderboardText(ctx, "roomA", 10); !strings.Contains(out, "33점") {
		t.Fatalf("leaderboard = %q, want points listed", out)
	}
	if out := h.engine.ClearLeaderboard(ctx, "roomA"); !strings.Contains(out, "초기화") {
		t.Fatalf("ClearLeaderboard = %q", out)
	}
}

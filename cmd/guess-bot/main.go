package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/kapu/kakao-guess-bot-go/internal/config"
	"github.com/kapu/kakao-guess-bot-go/internal/domain"
	"github.com/kapu/kakao-guess-bot-go/internal/game"
	"github.com/kapu/kakao-guess-bot-go/internal/irisfast"
	"github.com/kapu/kakao-guess-bot-go/internal/msgcat"
	"github.com/kapu/kakao-guess-bot-go/internal/obslog"
	"github.com/kapu/kakao-guess-bot-go/internal/provider"
	"github.com/kapu/kakao-guess-bot-go/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	msgs, err := msgcat.New(os.Getenv("MESSAGE_OVERRIDE_DIR"))
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XUserEmail != "" {
			h["X-User-Email"] = cfg.XUserEmail
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}

	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})

	egress := irisfast.NewEgress(os.Getenv("EGRESS_MODE"), false, client, ws, logger)

	rdb, err := store.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	repo, err := store.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("repository init error: %v", err)
	}
	svc := store.NewService(repo, rdb, cfg.RecentWindow)

	llm := provider.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey)
	var translator provider.Translator = provider.NopTranslator{}
	if cfg.TranslateURL != "" {
		translator = provider.NewHTTPTranslator(cfg.TranslateURL, "en")
	}

	engine := game.NewEngine(llm, translator, svc, transport{egress: egress}, msgs, logger, game.Options{
		InterRoundDelay: time.Duration(cfg.InterRoundDelaySec) * time.Second,
		GuessThrottle:   time.Duration(cfg.GuessThrottleMs) * time.Millisecond,
		Thresholds:      game.MatchThresholds{Primary: cfg.MatchPrimary, Alternate: cfg.MatchAlternate},
		RecentLimit:     cfg.RecentWindow,
		DefaultConfig: domain.GameConfig{
			Difficulty:       domain.DifficultyNormal,
			TotalRounds:      cfg.DefaultRounds,
			HintIntervalSec:  cfg.HintIntervalSec,
			RoundDurationMin: cfg.RoundDurationMin,
			BasePoints:       cfg.BasePoints,
			TimeBonus:        true,
			DifficultyBonus:  true,
			StreakBonus:      true,
		},
	})

	ws.OnMessage(func(msg *irisfast.Message) {
		if msg == nil || strings.TrimSpace(msg.Msg) == "" {
			return
		}
		if len(cfg.AllowedRooms) > 0 && !roomAllowed(cfg.AllowedRooms, msg.Room) {
			return
		}
		// WS 루프를 막지 않는다
		go dispatch(engine, cfg, msg)
	})

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()
	logger.Info("bot_started", zap.String("prefix", cfg.BotPrefix))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	_ = ws.Close(context.Background())
	_ = svc.Close()
	_ = logger.Sync()
}

// transport adapts irisfast egress to the engine's publish surface.
type transport struct {
	egress irisfast.Egress
}

func (t transport) PublishMessage(ctx context.Context, channel, text string) error {
	return t.egress.SendText(ctx, channel, text)
}

// dispatch routes one chat message: prefixed commands to handleCommand, plain
// text to a pending report or a guess.
func dispatch(engine *game.Engine, cfg *appcfg.AppConfig, msg *irisfast.Message) {
	ctx := context.Background()
	text := strings.TrimSpace(msg.Msg)
	userID := userIDFromMessage(msg)
	name := senderName(msg)

	if strings.HasPrefix(text, cfg.BotPrefix) {
		handleCommand(ctx, engine, cfg, msg, strings.TrimSpace(strings.TrimPrefix(text, cfg.BotPrefix)))
		return
	}
	if engine.HasPendingReport(msg.Room, userID) {
		if engine.FinalizeReport(ctx, msg.Room, userID, text) {
			return
		}
	}
	engine.SubmitGuess(ctx, msg.Room, userID, name, text)
}

func handleCommand(ctx context.Context, engine *game.Engine, cfg *appcfg.AppConfig, msg *irisfast.Message, raw string) {
	if raw == "" {
		reply(ctx, engine, msg.Room, helpText(cfg))
		return
	}
	parts := strings.Fields(raw)
	cmd := parts[0]
	args := parts[1:]
	userID := userIDFromMessage(msg)
	name := senderName(msg)

	switch cmd {
	case "시작", "start":
		mode := domain.ModeRiddle
		rounds := 0
		scope := ""
		rest := args
		if len(rest) > 0 {
			if m, ok := domain.ParseMode(rest[0]); ok {
				mode = m
				rest = rest[1:]
			}
		}
		if len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil {
				rounds = n
				rest = rest[1:]
			}
		}
		if len(rest) > 0 {
			scope = strings.Join(rest, " ")
		}
		_ = engine.StartSession(ctx, msg.Room, mode, scope, userID, name, rounds)
	case "중지", "종료", "stop":
		_ = engine.StopSession(ctx, msg.Room, userID)
	case "랭킹", "rank":
		limit := 10
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
				limit = n
			}
		}
		reply(ctx, engine, msg.Room, engine.LeaderboardText(ctx, msg.Room, limit))
	case "랭킹초기화":
		reply(ctx, engine, msg.Room, engine.ClearLeaderboard(ctx, msg.Room))
	case "설정", "config":
		switch {
		case len(args) == 0:
			reply(ctx, engine, msg.Room, engine.ConfigText(ctx, msg.Room))
		case args[0] == "초기화":
			reply(ctx, engine, msg.Room, engine.ResetConfig(ctx, msg.Room))
		case args[0] == "리로드":
			reply(ctx, engine, msg.Room, engine.ReloadConfig(ctx, msg.Room))
		case len(args) >= 2:
			reply(ctx, engine, msg.Room, engine.Configure(ctx, msg.Room, args[0], strings.Join(args[1:], " ")))
		default:
			reply(ctx, engine, msg.Room, "용법: "+cfg.BotPrefix+"설정 <항목> <값>")
		}
	case "신고", "report":
		reason := strings.Join(args, " ")
		if reason == "" {
			reason = "사유 미기재"
		}
		engine.InitiateReport(ctx, msg.Room, userID, reason)
	case "도움", "help":
		reply(ctx, engine, msg.Room, helpText(cfg))
	default:
		reply(ctx, engine, msg.Room, "알 수 없는 명령입니다. '"+cfg.BotPrefix+"도움'을 입력해보세요.")
	}
}

func reply(ctx context.Context, engine *game.Engine, room, text string) {
	engine.Publish(ctx, room, text)
}

func helpText(cfg *appcfg.AppConfig) string {
	p := cfg.BotPrefix
	return strings.Join([]string{
		"🧩 맞히기 게임 봇",
		"",
		"• " + p + "시작 [지리|수수께끼] [라운드수] [주제]",
		"  게임 시작 (정답은 그냥 채팅으로 입력)",
		"• " + p + "중지 — 게임 종료",
		"• " + p + "랭킹 [N] / " + p + "랭킹초기화",
		"• " + p + "설정 / " + p + "설정 <항목> <값> / " + p + "설정 초기화",
		"• " + p + "신고 [사유] — 직전 게임 문제 신고",
	}, "\n")
}

func userIDFromMessage(msg *irisfast.Message) string {
	if msg.JSON != nil && msg.JSON.UserID != "" {
		return msg.JSON.UserID
	}
	if msg.Sender != nil {
		return strings.TrimSpace(*msg.Sender)
	}
	return ""
}

func senderName(msg *irisfast.Message) string {
	if msg.Sender != nil && strings.TrimSpace(*msg.Sender) != "" {
		return strings.TrimSpace(*msg.Sender)
	}
	if msg.JSON != nil && msg.JSON.UserID != "" {
		return msg.JSON.UserID
	}
	return "player"
}

func roomAllowed(allowed []string, room string) bool {
	for _, r := range allowed {
		if r == room {
			return true
		}
	}
	return false
}

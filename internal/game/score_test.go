package game

import (
	"testing"
	"time"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

func baseConfig() domain.GameConfig {
	cfg := domain.DefaultGameConfig()
	cfg.BasePoints = 15
	cfg.Difficulty = domain.DifficultyNormal
	return cfg
}

func TestComputePoints_FullBonusAtRoundStart(t *testing.T) {
	cfg := baseConfig()
	// 15 × 1.5 = 22.5, 시간 보너스 +50% → 33.75 → 33
	got := ComputePoints(cfg, 0, 5*time.Minute, 0)
	if got != 33 {
		t.Fatalf("ComputePoints = %d, want 33", got)
	}
}

func TestComputePoints_NoTimeRemaining(t *testing.T) {
	cfg := baseConfig()
	got := ComputePoints(cfg, 5*time.Minute, 5*time.Minute, 0)
	if got != 22 { // 22.5 → 22
		t.Fatalf("ComputePoints = %d, want 22", got)
	}
	// 경과가 제한을 넘어도 음수 보너스는 없다
	late := ComputePoints(cfg, 6*time.Minute, 5*time.Minute, 0)
	if late != 22 {
		t.Fatalf("ComputePoints past duration = %d, want 22", late)
	}
}

func TestComputePoints_StreakBonus(t *testing.T) {
	cfg := baseConfig()
	cfg.TimeBonus = false
	// 22.5 × 1.2 = 27.0 → 27
	got := ComputePoints(cfg, 0, 5*time.Minute, 2)
	if got != 27 {
		t.Fatalf("ComputePoints streak=2 = %d, want 27", got)
	}
	if ComputePoints(cfg, 0, 5*time.Minute, 0) >= got {
		t.Fatalf("streak bonus did not increase points")
	}
}

func TestComputePoints_DisabledBonuses(t *testing.T) {
	cfg := baseConfig()
	cfg.TimeBonus = false
	cfg.DifficultyBonus = false
	cfg.StreakBonus = false
	got := ComputePoints(cfg, 0, 5*time.Minute, 5)
	if got != 15 {
		t.Fatalf("ComputePoints with bonuses off = %d, want 15", got)
	}
}

func TestComputePoints_MinimumOne(t *testing.T) {
	cfg := baseConfig()
	cfg.BasePoints = 1
	cfg.TimeBonus = false
	cfg.DifficultyBonus = false
	cfg.StreakBonus = false
	if got := ComputePoints(cfg, time.Hour, time.Minute, 0); got < 1 {
		t.Fatalf("ComputePoints = %d, want >= 1", got)
	}
}

func TestComputePoints_Deterministic(t *testing.T) {
	cfg := baseConfig()
	a := ComputePoints(cfg, 42*time.Second, 5*time.Minute, 3)
	b := ComputePoints(cfg, 42*time.Second, 5*time.Minute, 3)
	if a != b {
		t.Fatalf("ComputePoints not deterministic: %d vs %d", a, b)
	}
}

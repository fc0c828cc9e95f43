package game

import (
	"math"
	"time"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

// ComputePoints is the pure scoring function for a correct guess.
//
// base → 난이도 배수 → 시간 보너스(남은 시간 비율의 최대 50%) → 연승 보너스
// (10%/승) 순서로 누적하고 마지막에 한 번 내림한다. 최소 1점.
func ComputePoints(cfg domain.GameConfig, elapsed, roundDuration time.Duration, streak int) int {
	base := float64(cfg.BasePoints)
	if base <= 0 {
		base = float64(domain.DefaultGameConfig().BasePoints)
	}
	pts := base
	if cfg.DifficultyBonus {
		pts *= cfg.Difficulty.Multiplier()
	}
	if cfg.TimeBonus && roundDuration > 0 {
		remaining := roundDuration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		pts += pts * 0.5 * (float64(remaining) / float64(roundDuration))
	}
	if cfg.StreakBonus && streak > 0 {
		pts *= 1 + 0.1*float64(streak)
	}
	out := int(math.Floor(pts))
	if out < 1 {
		out = 1
	}
	return out
}

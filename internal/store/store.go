package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

// Service bundles the postgres repository and the redis recent-store behind
// the persistence surface the game engine consumes.
type Service struct {
	repo   *Repository
	recent *RecentStore

	recentWindow int
}

func NewService(repo *Repository, rdb *redis.Client, recentWindow int) *Service {
	if recentWindow <= 0 {
		recentWindow = 30
	}
	return &Service{repo: repo, recent: NewRecentStore(rdb), recentWindow: recentWindow}
}

func (s *Service) LoadConfig(ctx context.Context, channel string) (*domain.GameConfig, error) {
	return s.repo.LoadConfig(ctx, channel)
}

func (s *Service) SaveConfig(ctx context.Context, channel string, cfg domain.GameConfig) error {
	return s.repo.SaveConfig(ctx, channel, cfg)
}

func (s *Service) RecordRound(ctx context.Context, rec *domain.RoundRecord) error {
	return s.repo.RecordRound(ctx, rec)
}

func (s *Service) UpdateScore(ctx context.Context, channel, userID, displayName string, points int, won bool) error {
	return s.repo.UpdateScore(ctx, channel, userID, displayName, points, won)
}

func (s *Service) Leaderboard(ctx context.Context, channel string, limit int) ([]domain.ScoreRow, error) {
	return s.repo.Leaderboard(ctx, channel, limit)
}

func (s *Service) ClearLeaderboard(ctx context.Context, channel string) error {
	return s.repo.ClearLeaderboard(ctx, channel)
}

func (s *Service) FlagContent(ctx context.Context, contentID, reason, reporter string) error {
	return s.repo.FlagContent(ctx, contentID, reason, reporter)
}

func (s *Service) RecentContentKeys(ctx context.Context, channel string, mode domain.GameMode, limit int) ([]string, error) {
	if limit <= 0 || limit > s.recentWindow {
		limit = s.recentWindow
	}
	return s.recent.RecentContentKeys(ctx, channel, mode, limit)
}

func (s *Service) PushRecentContentKey(ctx context.Context, channel string, mode domain.GameMode, contentID string) error {
	return s.recent.PushRecentContentKey(ctx, channel, mode, contentID, s.recentWindow)
}

func (s *Service) SaveLatestSession(ctx context.Context, snap *domain.SessionSnapshot) error {
	return s.recent.SaveLatestSession(ctx, snap)
}

func (s *Service) LatestSession(ctx context.Context, channel string) (*domain.SessionSnapshot, error) {
	return s.recent.LatestSession(ctx, channel)
}

func (s *Service) Close() error {
	return s.repo.Close()
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

const (
	ttlRecent   = 30 * 24 * time.Hour
	ttlSnapshot = 7 * 24 * time.Hour
)

// RecentStore is the redis side of the store: the rolling recently-used
// content window and the latest-session snapshot consumed by reports.
type RecentStore struct {
	rdb *redis.Client
}

func NewRecentStore(rdb *redis.Client) *RecentStore { return &RecentStore{rdb: rdb} }

// NewRedisClient parses REDIS_URL and verifies connectivity.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *RecentStore) keyRecent(channel string, mode domain.GameMode) string {
	return "guess:recent:" + strings.TrimSpace(channel) + ":" + string(mode)
}

func (s *RecentStore) keySnapshot(channel string) string {
	return "guess:last:" + strings.TrimSpace(channel)
}

// PushRecentContentKey prepends one used content id and trims the window.
func (s *RecentStore) PushRecentContentKey(ctx context.Context, channel string, mode domain.GameMode, contentID string, window int) error {
	if strings.TrimSpace(contentID) == "" {
		return nil
	}
	if window <= 0 {
		window = 30
	}
	key := s.keyRecent(channel, mode)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, contentID)
	pipe.LTrim(ctx, key, 0, int64(window-1))
	pipe.Expire(ctx, key, ttlRecent)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push recent content: %w", err)
	}
	return nil
}

// RecentContentKeys returns up to limit most recently used content ids.
func (s *RecentStore) RecentContentKeys(ctx context.Context, channel string, mode domain.GameMode, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}
	ids, err := s.rdb.LRange(ctx, s.keyRecent(channel, mode), 0, int64(limit-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch recent content: %w", err)
	}
	return ids, nil
}

func (s *RecentStore) SaveLatestSession(ctx context.Context, snap *domain.SessionSnapshot) error {
	if snap == nil || strings.TrimSpace(snap.Channel) == "" {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.keySnapshot(snap.Channel), raw, ttlSnapshot).Err(); err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

func (s *RecentStore) LatestSession(ctx context.Context, channel string) (*domain.SessionSnapshot, error) {
	raw, err := s.rdb.Get(ctx, s.keySnapshot(channel)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}
	var snap domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal session snapshot: %w", err)
	}
	return &snap, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}

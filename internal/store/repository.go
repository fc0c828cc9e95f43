package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

// Repository is the postgres side of the store: room config, round history,
// leaderboard and content flags.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL required for repository")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) LoadConfig(ctx context.Context, channel string) (*domain.GameConfig, error) {
	const query = `SELECT config FROM game_room_configs WHERE channel = $1`
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, channel).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select room config: %w", err)
	}
	var cfg domain.GameConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal room config: %w", err)
	}
	return &cfg, nil
}

func (r *Repository) SaveConfig(ctx context.Context, channel string, cfg domain.GameConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal room config: %w", err)
	}
	const query = `
		INSERT INTO game_room_configs (channel, config, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (channel)
		DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, channel, raw); err != nil {
		return fmt.Errorf("upsert room config: %w", err)
	}
	return nil
}

func (r *Repository) RecordRound(ctx context.Context, rec *domain.RoundRecord) error {
	if rec == nil {
		return fmt.Errorf("nil round record")
	}
	const query = `
		INSERT INTO game_rounds (
			session_id,
			channel,
			mode,
			round,
			content_id,
			target,
			result,
			winner_id,
			winner_name,
			points,
			hint_count,
			wrong_guess_count,
			duration_ms,
			ended_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.SessionID,
		rec.Channel,
		string(rec.Mode),
		rec.Round,
		rec.ContentID,
		rec.Target,
		rec.Result,
		rec.WinnerID,
		rec.WinnerName,
		rec.Points,
		rec.HintCount,
		rec.WrongGuessCount,
		rec.Elapsed.Milliseconds(),
		rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game round: %w", err)
	}
	return nil
}

func (r *Repository) UpdateScore(ctx context.Context, channel, userID, displayName string, points int, won bool) error {
	wins := 0
	if won {
		wins = 1
	}
	const query = `
		INSERT INTO game_scores (channel, user_id, display_name, points, wins, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (channel, user_id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			points = game_scores.points + EXCLUDED.points,
			wins = game_scores.wins + EXCLUDED.wins,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, channel, userID, displayName, points, wins); err != nil {
		return fmt.Errorf("upsert game score: %w", err)
	}
	return nil
}

func (r *Repository) Leaderboard(ctx context.Context, channel string, limit int) ([]domain.ScoreRow, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT user_id, display_name, points, wins
		FROM game_scores
		WHERE channel = $1
		ORDER BY points DESC, wins DESC, updated_at ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ScoreRow, 0, limit)
	for rows.Next() {
		var row domain.ScoreRow
		if err := rows.Scan(&row.UserID, &row.DisplayName, &row.Points, &row.Wins); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ClearLeaderboard(ctx context.Context, channel string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM game_scores WHERE channel = $1`, channel); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}

func (r *Repository) FlagContent(ctx context.Context, contentID, reason, reporter string) error {
	const query = `
		INSERT INTO content_flags (content_id, reason, reporter, created_at)
		VALUES ($1, $2, $3, NOW())`
	if _, err := r.db.ExecContext(ctx, query, contentID, reason, reporter); err != nil {
		return fmt.Errorf("insert content flag: %w", err)
	}
	return nil
}

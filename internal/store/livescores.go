package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// LiveScoreRepository reads in-game scoring updates.
type LiveScoreRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewLiveScoreRepository creates a new live score repository.
func NewLiveScoreRepository(db *DB, log zerolog.Logger) *LiveScoreRepository {
	return &LiveScoreRepository{
		db:  db.Conn(),
		log: log.With().Str("repo", "live_scores").Logger(),
	}
}

// ListSince returns live scores updated after the watermark, oldest first.
func (r *LiveScoreRepository) ListSince(since time.Time) ([]domain.LiveScore, error) {
	rows, err := r.db.Query(
		"SELECT player_id, round, points, updated_at FROM live_scores WHERE updated_at > ? ORDER BY updated_at",
		since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query live scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.LiveScore
	for rows.Next() {
		s, err := scanLiveScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// Upsert writes one live score row.
func (r *LiveScoreRepository) Upsert(s domain.LiveScore) error {
	_, err := r.db.Exec(`
		INSERT INTO live_scores (player_id, round, points, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, round) DO UPDATE SET points = excluded.points, updated_at = excluded.updated_at`,
		s.PlayerID, s.Round, s.Points, s.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert live score: %w", err)
	}
	return nil
}

func scanLiveScore(rows *sql.Rows) (domain.LiveScore, error) {
	var s domain.LiveScore
	var updatedAt int64
	if err := rows.Scan(&s.PlayerID, &s.Round, &s.Points, &updatedAt); err != nil {
		return domain.LiveScore{}, fmt.Errorf("failed to scan live score: %w", err)
	}
	s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return s, nil
}

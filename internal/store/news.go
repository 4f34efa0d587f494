package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// NewsRepository reads published news items.
type NewsRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewNewsRepository creates a new news repository.
func NewNewsRepository(db *DB, log zerolog.Logger) *NewsRepository {
	return &NewsRepository{
		db:  db.Conn(),
		log: log.With().Str("repo", "news").Logger(),
	}
}

// ListSince returns news published after the watermark, oldest first.
func (r *NewsRepository) ListSince(since time.Time) ([]domain.NewsItem, error) {
	rows, err := r.db.Query(
		"SELECT id, player_id, type, headline, published_at FROM news WHERE published_at > ? ORDER BY published_at",
		since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()
	return scanNews(rows)
}

// ListForPlayer returns a player's news published after the watermark.
func (r *NewsRepository) ListForPlayer(playerID string, since time.Time) ([]domain.NewsItem, error) {
	rows, err := r.db.Query(
		"SELECT id, player_id, type, headline, published_at FROM news WHERE player_id = ? AND published_at > ? ORDER BY published_at",
		playerID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query player news: %w", err)
	}
	defer rows.Close()
	return scanNews(rows)
}

// Add inserts a news item. Used by host ingestion glue and tests.
func (r *NewsRepository) Add(item domain.NewsItem) error {
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO news (id, player_id, type, headline, published_at) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.PlayerID, string(item.Type), item.Headline, item.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to add news item: %w", err)
	}
	return nil
}

func scanNews(rows *sql.Rows) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	for rows.Next() {
		var item domain.NewsItem
		var newsType string
		var publishedAt int64
		if err := rows.Scan(&item.ID, &item.PlayerID, &newsType, &item.Headline, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		item.Type = domain.NewsType(newsType)
		item.Timestamp = time.Unix(publishedAt, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

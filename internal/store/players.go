package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// playerColumns avoids SELECT * so schema additions cannot break scans.
const playerColumns = `id, name, team, position, price, start_price, breakeven, games_played,
average, projected, consistency, ownership, injury_status, price_change, updated_at`

// PlayerRepository reads player snapshots and score histories.
type PlayerRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *DB, log zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:  db.Conn(),
		log: log.With().Str("repo", "players").Logger(),
	}
}

// GetByID returns a player snapshot, or nil when the player is unknown.
func (r *PlayerRepository) GetByID(id string) (*domain.PlayerSnapshot, error) {
	row := r.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player %s: %w", id, err)
	}
	return p, nil
}

// List returns every known player snapshot.
func (r *PlayerRepository) List() ([]domain.PlayerSnapshot, error) {
	rows, err := r.db.Query("SELECT " + playerColumns + " FROM players ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.PlayerSnapshot
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// ListByIDs returns snapshots for the given roster in a single query,
// skipping unknown IDs and preserving the request order.
func (r *PlayerRepository) ListByIDs(ids []string) ([]domain.PlayerSnapshot, error) {
	if len(ids) == 0 {
		return []domain.PlayerSnapshot{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query("SELECT "+playerColumns+" FROM players WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by id: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.PlayerSnapshot, len(ids))
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	players := make([]domain.PlayerSnapshot, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

// ScoreHistory returns a player's full score series (observed then
// projected, ordered by round) for the trajectory simulator.
func (r *PlayerRepository) ScoreHistory(playerID string) ([]float64, error) {
	rows, err := r.db.Query(
		"SELECT score FROM player_scores WHERE player_id = ? ORDER BY projected, round", playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// UpdatedSince returns players whose snapshot changed after the watermark.
// The alert poller uses this for price delta detection.
func (r *PlayerRepository) UpdatedSince(since time.Time) ([]domain.PlayerSnapshot, error) {
	rows, err := r.db.Query(
		"SELECT "+playerColumns+" FROM players WHERE updated_at > ? ORDER BY updated_at", since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query updated players: %w", err)
	}
	defer rows.Close()

	var players []domain.PlayerSnapshot
	for rows.Next() {
		snapshot, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *snapshot)
	}
	return players, rows.Err()
}

// Upsert writes a player snapshot. Used by host import glue and tests.
func (r *PlayerRepository) Upsert(p domain.PlayerSnapshot) error {
	_, err := r.db.Exec(`
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, team = excluded.team, position = excluded.position,
			price = excluded.price, start_price = excluded.start_price,
			breakeven = excluded.breakeven,
			games_played = excluded.games_played, average = excluded.average,
			projected = excluded.projected, consistency = excluded.consistency,
			ownership = excluded.ownership, injury_status = excluded.injury_status,
			price_change = excluded.price_change, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Team, string(p.Position), p.Price, p.StartPrice, p.Breakeven, p.GamesPlayed,
		p.Average, p.Projected, string(p.Consistency), p.Ownership, string(p.Injury),
		p.PriceChange, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
	}
	return nil
}

// AddScore records one round's score for a player.
func (r *PlayerRepository) AddScore(playerID string, round int, score float64, projected bool) error {
	flag := 0
	if projected {
		flag = 1
	}
	_, err := r.db.Exec(`
		INSERT INTO player_scores (player_id, round, score, projected)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, round) DO UPDATE SET score = excluded.score, projected = excluded.projected`,
		playerID, round, score, flag)
	if err != nil {
		return fmt.Errorf("failed to add score for %s: %w", playerID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*domain.PlayerSnapshot, error) {
	var p domain.PlayerSnapshot
	var position, consistency, injury string
	var updatedAt int64
	err := row.Scan(&p.ID, &p.Name, &p.Team, &position, &p.Price, &p.StartPrice, &p.Breakeven,
		&p.GamesPlayed, &p.Average, &p.Projected, &consistency, &p.Ownership,
		&injury, &p.PriceChange, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Position = domain.Position(position)
	p.Consistency = domain.ConsistencyGrade(consistency)
	p.Injury = domain.InjuryStatus(injury)
	return &p, nil
}

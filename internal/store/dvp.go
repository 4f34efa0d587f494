package store

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// DVPRepository reads defense-vs-position matchup history.
type DVPRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewDVPRepository creates a new DVP repository.
func NewDVPRepository(db *DB, log zerolog.Logger) *DVPRepository {
	return &DVPRepository{
		db:  db.Conn(),
		log: log.With().Str("repo", "dvp").Logger(),
	}
}

// Get returns the matchup record for a team/position pair, or nil when absent.
func (r *DVPRepository) Get(team string, position domain.Position) (*domain.DVPStats, error) {
	row := r.db.QueryRow(
		"SELECT team, position, points_allowed FROM dvp WHERE team = ? AND position = ?",
		team, string(position))

	var d domain.DVPStats
	var pos string
	err := row.Scan(&d.Team, &pos, &d.PointsAllowed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dvp: %w", err)
	}
	d.Position = domain.Position(pos)
	return &d, nil
}

// Set writes one matchup record.
func (r *DVPRepository) Set(d domain.DVPStats) error {
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO dvp (team, position, points_allowed) VALUES (?, ?, ?)",
		d.Team, string(d.Position), d.PointsAllowed)
	if err != nil {
		return fmt.Errorf("failed to set dvp: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// VenueRepository reads venue scoring-bias history and weather forecasts.
type VenueRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewVenueRepository creates a new venue repository.
func NewVenueRepository(db *DB, log zerolog.Logger) *VenueRepository {
	return &VenueRepository{
		db:  db.Conn(),
		log: log.With().Str("repo", "venues").Logger(),
	}
}

// Stats returns position-bias history for a venue, or nil when unknown.
func (r *VenueRepository) Stats(venue string) (*domain.VenueStats, error) {
	rows, err := r.db.Query("SELECT position, bias FROM venue_bias WHERE venue = ?", venue)
	if err != nil {
		return nil, fmt.Errorf("failed to query venue bias: %w", err)
	}
	defer rows.Close()

	bias := make(map[domain.Position]float64)
	for rows.Next() {
		var position string
		var value float64
		if err := rows.Scan(&position, &value); err != nil {
			return nil, fmt.Errorf("failed to scan venue bias: %w", err)
		}
		bias[domain.Position(position)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bias) == 0 {
		return nil, nil
	}
	return &domain.VenueStats{Venue: venue, PositionBias: bias}, nil
}

// SetBias writes one venue/position bias row.
func (r *VenueRepository) SetBias(venue string, position domain.Position, bias float64) error {
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO venue_bias (venue, position, bias) VALUES (?, ?, ?)",
		venue, string(position), bias)
	if err != nil {
		return fmt.Errorf("failed to set venue bias: %w", err)
	}
	return nil
}

// Weather returns the latest forecast for a venue, or nil when absent.
func (r *VenueRepository) Weather(venue string) (*domain.WeatherForecast, error) {
	row := r.db.QueryRow(
		"SELECT venue, raining, wind_kph, temp_c, forecast FROM weather WHERE venue = ?", venue)

	var w domain.WeatherForecast
	var raining int
	err := row.Scan(&w.Venue, &raining, &w.WindKph, &w.TempC, &w.Forecast)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query weather: %w", err)
	}
	w.Raining = raining != 0
	return &w, nil
}

// SetWeather writes a venue forecast.
func (r *VenueRepository) SetWeather(w domain.WeatherForecast) error {
	raining := 0
	if w.Raining {
		raining = 1
	}
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO weather (venue, raining, wind_kph, temp_c, forecast, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		w.Venue, raining, w.WindKph, w.TempC, w.Forecast, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set weather: %w", err)
	}
	return nil
}

// Package domain contains the core types shared across the engine.
// The domain layer is pure: no infrastructure dependencies.
package domain

import "time"

// Position identifies a player's on-field position.
type Position string

const (
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionRuck       Position = "RUC"
	PositionForward    Position = "FWD"
)

// Positions lists every roster position in display order.
var Positions = []Position{PositionDefender, PositionMidfielder, PositionRuck, PositionForward}

// ConsistencyGrade buckets a player's week-to-week scoring variance.
type ConsistencyGrade string

const (
	GradeA ConsistencyGrade = "A"
	GradeB ConsistencyGrade = "B"
	GradeC ConsistencyGrade = "C"
	GradeD ConsistencyGrade = "D"
)

// InjuryStatus reflects the latest published injury report entry.
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "healthy"
	InjuryQuestionable InjuryStatus = "questionable"
	InjuryOut          InjuryStatus = "out"
)

// PlayerSnapshot is an immutable per-round view of a player.
// The engine treats snapshots as read-only input owned by the host system.
type PlayerSnapshot struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Team        string           `json:"team"`
	Position    Position         `json:"position"`
	Price       int              `json:"price"`
	StartPrice  int              `json:"start_price"`
	Breakeven   int              `json:"breakeven"`
	GamesPlayed int              `json:"games_played"`
	Average     float64          `json:"average"`
	Projected   float64          `json:"projected"`
	Consistency ConsistencyGrade `json:"consistency_grade"`
	Ownership   float64          `json:"ownership_pct"`
	Injury      InjuryStatus     `json:"injury_status"`
	PriceChange int              `json:"price_change"`
	FormFactor  float64          `json:"form_factor,omitempty"`
}

// PriceProjection is one simulated week of a player's price trajectory.
// Confidence is in [0,1] and never increases with distance from the present.
type PriceProjection struct {
	Round      int     `json:"round"`
	Price      int     `json:"price"`
	Confidence float64 `json:"confidence"`
}

// NewsItem is a published news record about a player.
type NewsItem struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Type      NewsType  `json:"type"`
	Headline  string    `json:"headline"`
	Timestamp time.Time `json:"timestamp"`
}

// NewsType categorises a news item.
type NewsType string

const (
	NewsInjury     NewsType = "injury"
	NewsRoleChange NewsType = "role_change"
	NewsTeam       NewsType = "team"
)

// VenueStats holds historical scoring bias per position at a venue.
// A bias of 1.0 is neutral; above 1.0 the venue favours the position.
type VenueStats struct {
	Venue        string               `json:"venue"`
	PositionBias map[Position]float64 `json:"position_bias"`
}

// WeatherForecast is the forecast for a venue on game day.
type WeatherForecast struct {
	Venue    string  `json:"venue"`
	Raining  bool    `json:"raining"`
	WindKph  float64 `json:"wind_kph"`
	TempC    float64 `json:"temp_c"`
	Forecast string  `json:"forecast"`
}

// DVPStats is the defense-vs-position matchup difficulty for a team.
// Higher PointsAllowed means the opponent leaks more points to that position.
type DVPStats struct {
	Team          string   `json:"team"`
	Position      Position `json:"position"`
	PointsAllowed float64  `json:"points_allowed"`
}

// LiveScore is an in-game scoring update for a player.
type LiveScore struct {
	PlayerID  string    `json:"player_id"`
	Round     int       `json:"round"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

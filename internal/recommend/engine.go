// Package recommend implements the multi-factor scoring layer: captain
// suggestions, cash-cow analysis, composite risk, team-structure weaknesses,
// and upgrade pathways.
//
// Every scoring procedure follows one pattern: a base score, a fixed ordered
// list of named adjustments, a clamp to a documented range, and the applied
// reasoning returned alongside the number. The engine is advisory: missing or
// partial input degrades to an empty result, never an error past the
// component boundary.
package recommend

import (
	"time"

	"github.com/rs/zerolog"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
	"fantasyedge/internal/pricing"
)

// PlayerProvider supplies player snapshots and score histories.
type PlayerProvider interface {
	GetByID(id string) (*domain.PlayerSnapshot, error)
	List() ([]domain.PlayerSnapshot, error)
	ListByIDs(ids []string) ([]domain.PlayerSnapshot, error)
	ScoreHistory(playerID string) ([]float64, error)
}

// NewsProvider supplies published news for a player.
type NewsProvider interface {
	ListForPlayer(playerID string, since time.Time) ([]domain.NewsItem, error)
}

// VenueProvider supplies venue bias history and weather forecasts.
type VenueProvider interface {
	Stats(venue string) (*domain.VenueStats, error)
	Weather(venue string) (*domain.WeatherForecast, error)
}

// DVPProvider supplies defense-vs-position matchup history.
type DVPProvider interface {
	Get(team string, position domain.Position) (*domain.DVPStats, error)
}

// Engine is the recommendation engine. One shared instance per process,
// explicitly constructed and injected into handlers.
type Engine struct {
	players PlayerProvider
	news    NewsProvider
	venues  VenueProvider
	dvp     DVPProvider

	sim         *pricing.Simulator
	cache       *cache.Store
	magicNumber float64

	now func() time.Time
	log zerolog.Logger
}

// Config holds the engine's injected dependencies.
type Config struct {
	Players     PlayerProvider
	News        NewsProvider
	Venues      VenueProvider
	DVP         DVPProvider
	Simulator   *pricing.Simulator
	Cache       *cache.Store
	MagicNumber float64
	Log         zerolog.Logger
}

// New creates a recommendation engine.
func New(cfg Config) *Engine {
	return &Engine{
		players:     cfg.Players,
		news:        cfg.News,
		venues:      cfg.Venues,
		dvp:         cfg.DVP,
		sim:         cfg.Simulator,
		cache:       cfg.Cache,
		magicNumber: cfg.MagicNumber,
		now:         time.Now,
		log:         cfg.Log.With().Str("component", "recommendation_engine").Logger(),
	}
}

// SetClock overrides the engine clock. Used by tests for news-recency rules.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// cachePut is a best-effort write-through: failures are logged and never
// block or fail the caller.
func (e *Engine) cachePut(key string, value interface{}, ttl time.Duration) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(key, value, ttl); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// cacheGet reads a cached value; a store error is treated as a miss.
func (e *Engine) cacheGet(key string, dest interface{}) bool {
	if e.cache == nil {
		return false
	}
	ok, err := e.cache.Get(key, dest)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	return ok
}

// consistencyGrade prefers the snapshot's stored grade, deriving one from
// the observed score history when the host never graded the player.
func (e *Engine) consistencyGrade(p domain.PlayerSnapshot) domain.ConsistencyGrade {
	if p.Consistency != "" {
		return p.Consistency
	}
	scores, err := e.players.ScoreHistory(p.ID)
	if err != nil || len(scores) == 0 {
		return domain.GradeC
	}
	return pricing.Consistency(observedScores(scores, p.GamesPlayed))
}

// clampScore bounds a score to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

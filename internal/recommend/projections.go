package recommend

import (
	"fmt"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
	"fantasyedge/internal/pricing"
)

// Pessimistic/optimistic score multipliers for the floor/ceiling window.
const (
	floorScoreFactor   = 0.7
	ceilingScoreFactor = 1.3
)

// PriceOutlook bundles a player's projected trajectory with its bounds and
// peak estimate.
type PriceOutlook struct {
	PlayerID   string                   `json:"player_id"`
	Trajectory []domain.PriceProjection `json:"trajectory"`
	Floor      int                      `json:"floor"`
	Ceiling    int                      `json:"ceiling"`
	PeakPrice  int                      `json:"peak_price"`
	PeakRound  int                      `json:"peak_round"`
}

// ProjectPrice simulates a player's price outlook over the horizon.
// Unknown players yield a nil outlook.
func (e *Engine) ProjectPrice(playerID string, horizonRounds int) (*PriceOutlook, error) {
	cacheKey := fmt.Sprintf("projection:%s:%d", playerID, horizonRounds)

	var cached PriceOutlook
	if e.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	p, err := e.players.GetByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player for projection: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	scores, err := e.players.ScoreHistory(playerID)
	if err != nil {
		scores = nil
	}

	trajectory := e.sim.Simulate(*p, scores, horizonRounds, e.magicNumber)
	peakPrice, peakRound := pricing.Peak(trajectory)
	floor, ceiling := e.sim.FloorCeiling(*p, p.Average*floorScoreFactor, p.Average*ceilingScoreFactor, e.magicNumber)

	outlook := &PriceOutlook{
		PlayerID:   playerID,
		Trajectory: trajectory,
		Floor:      floor,
		Ceiling:    ceiling,
		PeakPrice:  peakPrice,
		PeakRound:  peakRound,
	}

	e.cachePut(cacheKey, outlook, cache.TTLMedium)
	return outlook, nil
}

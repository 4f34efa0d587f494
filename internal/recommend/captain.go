package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
	"fantasyedge/internal/pricing"
)

// Adjustment is a flag set of captain scoring factors. The caller selects
// which factors feed the confidence score; projected points always applies
// every computed impact (observed host behaviour, kept deliberately —
// flagged for product clarification rather than silently unified).
type Adjustment uint8

const (
	AdjustForm Adjustment = 1 << iota
	AdjustVenue
	AdjustOpponent
	AdjustWeather
)

// AllAdjustments selects every captain scoring factor.
const AllAdjustments = AdjustForm | AdjustVenue | AdjustOpponent | AdjustWeather

// Has reports whether the set includes the given factor.
func (a Adjustment) Has(f Adjustment) bool {
	return a&f != 0
}

const (
	captainBaseConfidence = 70
	captainResultLimit    = 3
	windImpactThreshold   = 30.0
)

// CaptainRequest describes one captain scoring run.
type CaptainRequest struct {
	Round       int                `json:"round"`
	PlayerIDs   []string           `json:"player_ids"`
	Venues      map[string]string  `json:"venues"`    // player ID -> venue
	Opponents   map[string]string  `json:"opponents"` // player ID -> opposing team
	Adjustments Adjustment         `json:"adjustments"`
}

// SuggestCaptains scores the requested players as captain candidates and
// returns the top three, ranked by projected points with confidence as the
// tie-break. Results are staged through the cache per round.
func (e *Engine) SuggestCaptains(req CaptainRequest) []domain.CaptainSuggestion {
	cacheKey := fmt.Sprintf("captain:round%d:%d:%s", req.Round, req.Adjustments, strings.Join(req.PlayerIDs, ","))

	var cached []domain.CaptainSuggestion
	if e.cacheGet(cacheKey, &cached) {
		return cached
	}

	players, err := e.players.ListByIDs(req.PlayerIDs)
	if err != nil {
		e.log.Warn().Err(err).Msg("Captain scoring degraded: player lookup failed")
		return []domain.CaptainSuggestion{}
	}

	suggestions := make([]domain.CaptainSuggestion, 0, len(players))
	for _, p := range players {
		if s := e.scoreCaptain(p, req); s != nil {
			suggestions = append(suggestions, *s)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].ProjectedPoints != suggestions[j].ProjectedPoints {
			return suggestions[i].ProjectedPoints > suggestions[j].ProjectedPoints
		}
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > captainResultLimit {
		suggestions = suggestions[:captainResultLimit]
	}

	e.cachePut(cacheKey, suggestions, cache.TTLMedium)
	return suggestions
}

// scoreCaptain applies the fixed ordered adjustment list to one candidate.
func (e *Engine) scoreCaptain(p domain.PlayerSnapshot, req CaptainRequest) *domain.CaptainSuggestion {
	if p.Average <= 0 {
		return nil
	}

	confidence := captainBaseConfidence
	reasoning := []string{}
	impacts := []int{}

	// Form: recent output relative to season average.
	formImpact := 0
	formFactor := p.FormFactor
	scores, err := e.players.ScoreHistory(p.ID)
	if err == nil && len(scores) > 0 {
		observed := observedScores(scores, p.GamesPlayed)
		formImpact = int(math.Round((recentMean(observed) - p.Average) * 0.5))
		if formFactor == 0 {
			// Snapshots without a host-supplied form factor get one derived
			// from the observed series.
			formFactor = pricing.FormFactor(observed)
		}
	}
	impacts = append(impacts, formImpact)
	if req.Adjustments.Has(AdjustForm) {
		confidence += formImpact
		reasoning = append(reasoning, fmt.Sprintf("Form vs average: %+d", formImpact))
	}

	// Venue: historical position bias at the match venue.
	venueImpact := 0
	venueBias := 1.0
	if venue, ok := req.Venues[p.ID]; ok {
		if stats, err := e.venues.Stats(venue); err == nil && stats != nil {
			if bias, ok := stats.PositionBias[p.Position]; ok {
				venueBias = bias
				venueImpact = int(math.Round((bias - 1) * 20))
			}
		}
	}
	impacts = append(impacts, venueImpact)
	if req.Adjustments.Has(AdjustVenue) {
		confidence += venueImpact
		reasoning = append(reasoning, fmt.Sprintf("Venue bias %.2f: %+d", venueBias, venueImpact))
	}

	// Opponent: how freely the opponent concedes to this position.
	opponentImpact := 0
	if opponent, ok := req.Opponents[p.ID]; ok {
		if matchup, err := e.dvp.Get(opponent, p.Position); err == nil && matchup != nil {
			opponentImpact = int(math.Round(((matchup.PointsAllowed / p.Average) - 1) * 20))
		}
	}
	impacts = append(impacts, opponentImpact)
	if req.Adjustments.Has(AdjustOpponent) {
		confidence += opponentImpact
		reasoning = append(reasoning, fmt.Sprintf("Opponent matchup: %+d", opponentImpact))
	}

	// Weather: rain suits midfielders, wind punishes forwards.
	weatherImpact := 0
	if venue, ok := req.Venues[p.ID]; ok {
		if forecast, err := e.venues.Weather(venue); err == nil && forecast != nil {
			if forecast.Raining {
				weatherImpact -= 10
				if p.Position == domain.PositionMidfielder {
					weatherImpact += 5
				}
			}
			if forecast.WindKph > windImpactThreshold {
				weatherImpact -= 5
				if p.Position == domain.PositionForward {
					weatherImpact -= 5
				}
			}
		}
	}
	impacts = append(impacts, weatherImpact)
	if req.Adjustments.Has(AdjustWeather) {
		confidence += weatherImpact
		reasoning = append(reasoning, fmt.Sprintf("Weather: %+d", weatherImpact))
	}

	// Projection applies every impact regardless of the selected factor set;
	// confidence is additive over the selected factors only.
	impactSum := 0
	for _, impact := range impacts {
		impactSum += impact
	}
	projectedPoints := int(math.Round(p.Projected * (1 + float64(impactSum)/100)))

	return &domain.CaptainSuggestion{
		Player:          p,
		Confidence:      clampScore(confidence),
		Reasoning:       reasoning,
		ProjectedPoints: projectedPoints,
		FormFactor:      formFactor,
		VenueBias:       venueBias,
		WeatherImpact:   weatherImpact,
	}
}

// observedScores returns the observed prefix of a flat score series (the
// first GamesPlayed entries; the remainder are projections).
func observedScores(scores []float64, gamesPlayed int) []float64 {
	if gamesPlayed > 0 && gamesPlayed < len(scores) {
		return scores[:gamesPlayed]
	}
	return scores
}

// recentMean averages the last three observed scores.
func recentMean(observed []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	window := 3
	if len(observed) < window {
		window = len(observed)
	}
	sum := 0.0
	for _, s := range observed[len(observed)-window:] {
		sum += s
	}
	return sum / float64(window)
}

package recommend

import (
	"fmt"
	"sort"
	"time"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
	"fantasyedge/internal/pricing"
)

const (
	// CashCowPriceCeiling is the eligibility cut-off: players at or above it
	// are never cash cows regardless of other attributes.
	CashCowPriceCeiling = 300000

	// cashCowHorizonRounds is the projection horizon for generation estimates.
	cashCowHorizonRounds = 8

	// roleChangeWindow is how far back role-change news counts against a cow.
	roleChangeWindow = 14 * 24 * time.Hour
)

// gradeBaseConfidence maps consistency grade to the cash-cow base confidence.
var gradeBaseConfidence = map[domain.ConsistencyGrade]int{
	domain.GradeA: 90,
	domain.GradeB: 80,
	domain.GradeC: 70,
	domain.GradeD: 60,
}

// CashCowRequest describes one cash-cow scan. A non-positive horizon falls
// back to the default eight rounds.
type CashCowRequest struct {
	Round         int `json:"round"`
	MinConfidence int `json:"min_confidence"`
	Horizon       int `json:"horizon"`
}

// AnalyzeCashCows scans the player pool for cash-generation candidates,
// filters by minimum confidence, and sorts by projected generation.
func (e *Engine) AnalyzeCashCows(req CashCowRequest) []domain.CashCowAnalysis {
	horizon := req.Horizon
	if horizon <= 0 {
		horizon = cashCowHorizonRounds
	}
	cacheKey := fmt.Sprintf("cashcows:round%d:min%d:h%d", req.Round, req.MinConfidence, horizon)

	var cached []domain.CashCowAnalysis
	if e.cacheGet(cacheKey, &cached) {
		return cached
	}

	players, err := e.players.List()
	if err != nil {
		e.log.Warn().Err(err).Msg("Cash cow scan degraded: player lookup failed")
		return []domain.CashCowAnalysis{}
	}

	results := make([]domain.CashCowAnalysis, 0)
	for _, p := range players {
		if p.Price >= CashCowPriceCeiling {
			continue
		}
		analysis := e.analyzeCashCow(p, horizon)
		if analysis.Confidence < req.MinConfidence {
			continue
		}
		results = append(results, analysis)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ProjectedGeneration > results[j].ProjectedGeneration
	})

	e.cachePut(cacheKey, results, cache.TTLMedium)
	return results
}

// analyzeCashCow projects one eligible player's price trajectory and scores
// sell-timing confidence from grade, role stability, ownership, and injury.
func (e *Engine) analyzeCashCow(p domain.PlayerSnapshot, horizon int) domain.CashCowAnalysis {
	scores, err := e.players.ScoreHistory(p.ID)
	if err != nil {
		scores = nil
	}

	trajectory := e.sim.Simulate(p, scores, horizon, e.magicNumber)
	peakPrice, peakRound := pricing.Peak(trajectory)

	confidence, ok := gradeBaseConfidence[e.consistencyGrade(p)]
	if !ok {
		confidence = gradeBaseConfidence[domain.GradeD]
	}

	// Role adjustment: recent role-change news is a red flag, high ownership
	// signals market confidence, very low ownership the opposite.
	if e.news != nil {
		items, err := e.news.ListForPlayer(p.ID, e.now().Add(-roleChangeWindow))
		if err == nil {
			for _, item := range items {
				if item.Type == domain.NewsRoleChange {
					confidence -= 20
					break
				}
			}
		}
	}
	if p.Ownership > 30 {
		confidence += 10
	} else if p.Ownership < 10 {
		confidence -= 20
	}

	if p.Injury == domain.InjuryQuestionable {
		confidence -= 20
	}

	return domain.CashCowAnalysis{
		Player:              p,
		Generated:           p.Price - p.StartPrice,
		ProjectedGeneration: peakPrice - p.Price,
		SellWeek:            peakRound,
		Confidence:          clampScore(confidence),
		PriceTrajectory:     trajectory,
	}
}

package recommend

import (
	"sort"

	"fantasyedge/internal/domain"
)

const (
	upgradeBaseConfidence = 70
	upgradeResultLimit    = 5

	// upgradePriceBand caps how far above the outgoing player's price a
	// candidate may sit.
	upgradePriceBand = 500000

	// minPointsImprovement filters pathways not worth the trade.
	minPointsImprovement = 15.0

	valueRatioStrong = 1.2
	valueRatioWeak   = 0.8
)

// gradeRank orders consistency grades for improvement comparison.
var gradeRank = map[domain.ConsistencyGrade]int{
	domain.GradeA: 4,
	domain.GradeB: 3,
	domain.GradeC: 2,
	domain.GradeD: 1,
}

// FindUpgradePathways searches the player pool for trades addressing the
// detected weaknesses. Only pathways with a points improvement above the
// threshold are surfaced; the top five by confidence are returned. Cost and
// points improvement are raw differences and may be negative before the
// filter is applied.
func (e *Engine) FindUpgradePathways(roster []domain.PlayerSnapshot, weaknesses []domain.TeamWeakness) []domain.UpgradePathway {
	if len(roster) == 0 || len(weaknesses) == 0 {
		return []domain.UpgradePathway{}
	}

	pool, err := e.players.List()
	if err != nil {
		e.log.Warn().Err(err).Msg("Upgrade search degraded: player pool lookup failed")
		return []domain.UpgradePathway{}
	}

	held := make(map[string]bool, len(roster))
	for _, p := range roster {
		held[p.ID] = true
	}

	pathways := []domain.UpgradePathway{}
	for _, weakness := range weaknesses {
		from, ok := cheapestHolder(roster, weakness.Position)
		if !ok {
			continue
		}
		for _, candidate := range pool {
			if held[candidate.ID] || candidate.ID == from.ID {
				continue
			}
			if candidate.Position != from.Position {
				continue
			}
			if candidate.Price <= from.Price || candidate.Price > from.Price+upgradePriceBand {
				continue
			}

			pathway := e.buildPathway(from, candidate)
			if pathway.PointsImprovement <= minPointsImprovement {
				continue
			}
			pathways = append(pathways, pathway)
		}
	}

	sort.SliceStable(pathways, func(i, j int) bool {
		return pathways[i].Confidence > pathways[j].Confidence
	})
	if len(pathways) > upgradeResultLimit {
		pathways = pathways[:upgradeResultLimit]
	}
	return pathways
}

// buildPathway computes cost, points improvement, and upgrade confidence for
// one from/to pair.
func (e *Engine) buildPathway(from, to domain.PlayerSnapshot) domain.UpgradePathway {
	cost := to.Price - from.Price
	improvement := to.Projected - from.Projected

	confidence := upgradeBaseConfidence
	if cost != 0 {
		valueRatio := improvement / float64(cost) * 500000
		if valueRatio > valueRatioStrong {
			confidence += 10
		} else if valueRatio < valueRatioWeak {
			confidence -= 10
		}
	}
	if gradeRank[e.consistencyGrade(to)] > gradeRank[e.consistencyGrade(from)] {
		confidence += 10
	}
	if to.FormFactor > from.FormFactor {
		confidence += 5
	}

	return domain.UpgradePathway{
		From:              from,
		To:                to,
		Cost:              cost,
		PointsImprovement: improvement,
		Confidence:        clampScore(confidence),
	}
}

// cheapestHolder finds the lowest-priced rostered player at a position.
// A weakness without a position (e.g. PREMIUM_LIGHT) falls back to the
// cheapest player on the whole roster.
func cheapestHolder(roster []domain.PlayerSnapshot, position domain.Position) (domain.PlayerSnapshot, bool) {
	var cheapest domain.PlayerSnapshot
	found := false
	for _, p := range roster {
		if position != "" && p.Position != position {
			continue
		}
		if !found || p.Price < cheapest.Price {
			cheapest = p
			found = true
		}
	}
	return cheapest, found
}

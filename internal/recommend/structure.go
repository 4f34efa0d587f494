package recommend

import (
	"fmt"
	"math"

	"fantasyedge/internal/domain"
)

const (
	// PremiumPriceThreshold marks the premium price tier.
	PremiumPriceThreshold = 550000

	// RookiePriceThreshold marks the rookie price tier.
	RookiePriceThreshold = 280000

	// positionDeviationTolerance is the allowed deviation from the ideal
	// per-position count before a POSITION_IMBALANCE flag is raised.
	positionDeviationTolerance = 2

	minPremiumCount = 4
	maxRookieCount  = 10
)

// AnalyzeStructure aggregates per-position and price-tier counts for a roster.
func (e *Engine) AnalyzeStructure(roster []domain.PlayerSnapshot) domain.TeamStructure {
	structure := domain.TeamStructure{
		PositionCounts: make(map[domain.Position]int),
		RosterSize:     len(roster),
	}
	for _, p := range roster {
		structure.PositionCounts[p.Position]++
		structure.TotalValue += p.Price
		if p.Price > PremiumPriceThreshold {
			structure.PremiumCount++
		}
		if p.Price < RookiePriceThreshold {
			structure.RookieCount++
		}
	}
	return structure
}

// DetectWeaknesses flags structural weaknesses in a roster. An empty roster
// yields no weaknesses: the engine never judges what it cannot see.
func (e *Engine) DetectWeaknesses(roster []domain.PlayerSnapshot) []domain.TeamWeakness {
	if len(roster) == 0 {
		return []domain.TeamWeakness{}
	}

	structure := e.AnalyzeStructure(roster)
	weaknesses := []domain.TeamWeakness{}

	ideal := float64(structure.RosterSize) / float64(len(domain.Positions))
	for _, position := range domain.Positions {
		deviation := math.Abs(float64(structure.PositionCounts[position]) - ideal)
		if deviation > positionDeviationTolerance {
			weaknesses = append(weaknesses, domain.TeamWeakness{
				Type:     domain.WeaknessPositionImbalance,
				Position: position,
				Severity: deviation * 10,
				Recommendation: fmt.Sprintf("Rebalance %s stock: %d held against an ideal of %.0f",
					position, structure.PositionCounts[position], ideal),
			})
		}
	}

	if structure.PremiumCount < minPremiumCount {
		shortfall := minPremiumCount - structure.PremiumCount
		weaknesses = append(weaknesses, domain.TeamWeakness{
			Type:     domain.WeaknessPremiumLight,
			Severity: float64(shortfall) * 25,
			Recommendation: fmt.Sprintf("Upgrade to at least %d premiums; currently holding %d",
				minPremiumCount, structure.PremiumCount),
		})
	}

	if structure.RookieCount > maxRookieCount {
		excess := structure.RookieCount - maxRookieCount
		weaknesses = append(weaknesses, domain.TeamWeakness{
			Type:     domain.WeaknessRookieHeavy,
			Severity: float64(excess) * 10,
			Recommendation: fmt.Sprintf("Trade up from the rookie tier; %d players below %d",
				structure.RookieCount, RookiePriceThreshold),
		})
	}

	return weaknesses
}

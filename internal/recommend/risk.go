package recommend

import (
	"fmt"
	"math"
	"time"

	"fantasyedge/internal/cache"
	"fantasyedge/internal/domain"
)

// Composite risk weights. Injury dominates, price matters least.
const (
	weightInjuryRisk = 0.4
	weightRoleRisk   = 0.3
	weightFormRisk   = 0.2
	weightPriceRisk  = 0.1

	injuryNewsWindow = 30 * 24 * time.Hour

	// premiumPriceDiscount discounts price risk for premiums: an expensive
	// player's price is backed by an established scoring floor.
	premiumPriceDiscount  = 0.7
	premiumPriceRiskFloor = 600000
)

// gradeFormPenalty is the consistency penalty applied to form risk.
var gradeFormPenalty = map[domain.ConsistencyGrade]int{
	domain.GradeA: 0,
	domain.GradeB: 5,
	domain.GradeC: 15,
	domain.GradeD: 25,
}

// AssessRisk computes the weighted composite risk for one player. Each
// sub-score is independently clamped to [0,100] before weighting. Unknown
// players yield a nil assessment.
func (e *Engine) AssessRisk(playerID string) (*domain.RiskAssessment, error) {
	cacheKey := "risk:" + playerID

	var cached domain.RiskAssessment
	if e.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	p, err := e.players.GetByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player for risk assessment: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	var recentNews []domain.NewsItem
	if e.news != nil {
		items, err := e.news.ListForPlayer(playerID, e.now().Add(-injuryNewsWindow))
		if err == nil {
			recentNews = items
		}
	}

	reasoning := []string{}
	grade := e.consistencyGrade(*p)

	injury := e.injuryRisk(*p, recentNews, &reasoning)
	role := e.roleRisk(*p, grade, recentNews, &reasoning)
	form := e.formRisk(*p, grade, &reasoning)
	price := e.priceRisk(*p, &reasoning)

	overall := int(math.Round(
		weightInjuryRisk*float64(injury) +
			weightRoleRisk*float64(role) +
			weightFormRisk*float64(form) +
			weightPriceRisk*float64(price)))

	assessment := &domain.RiskAssessment{
		PlayerID:  playerID,
		Overall:   overall,
		Injury:    injury,
		Role:      role,
		Form:      form,
		Price:     price,
		Reasoning: reasoning,
	}

	e.cachePut(cacheKey, assessment, cache.TTLMedium)
	return assessment, nil
}

func (e *Engine) injuryRisk(p domain.PlayerSnapshot, news []domain.NewsItem, reasoning *[]string) int {
	risk := 0
	if p.Injury == domain.InjuryQuestionable {
		risk += 40
		*reasoning = append(*reasoning, "Listed as questionable")
	}
	for _, item := range news {
		if item.Type == domain.NewsInjury {
			risk += 20
			*reasoning = append(*reasoning, "Injury reported in the last 30 days")
			break
		}
	}
	if p.Average > 100 {
		// High scoring average is a proxy for a high-exposure role.
		risk += 10
	}
	return clampScore(risk)
}

func (e *Engine) roleRisk(p domain.PlayerSnapshot, grade domain.ConsistencyGrade, news []domain.NewsItem, reasoning *[]string) int {
	risk := 0
	cutoff := e.now().Add(-roleChangeWindow)
	for _, item := range news {
		if item.Type == domain.NewsRoleChange && item.Timestamp.After(cutoff) {
			risk += 30
			*reasoning = append(*reasoning, "Role change reported in the last 14 days")
			break
		}
	}
	if p.Ownership < 10 {
		risk += 20
		*reasoning = append(*reasoning, "Ownership below 10%")
	}
	switch grade {
	case domain.GradeC:
		risk += 20
	case domain.GradeD:
		risk += 40
		*reasoning = append(*reasoning, "Grade D consistency")
	}
	return clampScore(risk)
}

func (e *Engine) formRisk(p domain.PlayerSnapshot, grade domain.ConsistencyGrade, reasoning *[]string) int {
	risk := 0
	if p.Average > 0 && p.Projected < p.Average {
		shortfall := (p.Average - p.Projected) / p.Average * 100
		risk += int(math.Round(shortfall))
		*reasoning = append(*reasoning, fmt.Sprintf("Projected %.0f below average %.0f", p.Projected, p.Average))
	}
	risk += gradeFormPenalty[grade]
	if p.PriceChange < 0 {
		decline := -p.PriceChange / 1000
		if decline > 40 {
			decline = 40
		}
		risk += decline
	}
	return clampScore(risk)
}

func (e *Engine) priceRisk(p domain.PlayerSnapshot, reasoning *[]string) int {
	risk := 0.0
	if p.Average > 0 && float64(p.Breakeven) > p.Average {
		// Breakeven above the scoring average means a drop is the base case.
		risk += (float64(p.Breakeven) - p.Average) / p.Average * 100
		*reasoning = append(*reasoning, fmt.Sprintf("Breakeven %d above average %.0f", p.Breakeven, p.Average))
	}
	if p.PriceChange < 0 {
		drop := float64(-p.PriceChange) / 1000
		if drop > 50 {
			drop = 50
		}
		risk += drop
	}
	if p.Price > premiumPriceRiskFloor {
		risk *= premiumPriceDiscount
	}
	return clampScore(int(math.Round(risk)))
}

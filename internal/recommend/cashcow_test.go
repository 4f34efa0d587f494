package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasyedge/internal/domain"
)

func cashCowCandidate(id string, price int) domain.PlayerSnapshot {
	return domain.PlayerSnapshot{
		ID:          id,
		Name:        id,
		Position:    domain.PositionDefender,
		Price:       price,
		StartPrice:  210000,
		Breakeven:   40,
		GamesPlayed: 3,
		Average:     91,
		Consistency: domain.GradeB,
		Ownership:   20,
		Injury:      domain.InjuryHealthy,
	}
}

func TestEngine_AnalyzeCashCows_ExcludesPlayersAtOrAbovePriceCeiling(t *testing.T) {
	players := newFakePlayers(
		cashCowCandidate("cheap", 250000),
		cashCowCandidate("boundary", CashCowPriceCeiling),
		cashCowCandidate("premium", 650000),
	)
	for id := range players.players {
		players.scores[id] = []float64{90, 95, 88}
	}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4})

	assert.Len(t, results, 1)
	assert.Equal(t, "cheap", results[0].Player.ID)
}

func TestEngine_AnalyzeCashCows_ProjectsGenerationAndSellWeek(t *testing.T) {
	players := newFakePlayers(cashCowCandidate("cow", 250000))
	players.scores["cow"] = []float64{90, 95, 88}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4})

	assert.Len(t, results, 1)
	cow := results[0]

	assert.Equal(t, 40000, cow.Generated, "generated cash is current price minus start price")
	assert.Len(t, cow.PriceTrajectory, 9, "eight round horizon plus the current price")

	// Scoring comfortably above breakeven climbs every round, so the peak
	// lands on the final simulated round.
	assert.Greater(t, cow.ProjectedGeneration, 0)
	assert.Equal(t, 8, cow.SellWeek)
	assert.Equal(t, 80, cow.Confidence, "grade B base with no adjustments")
}

func TestEngine_AnalyzeCashCows_ShortHorizonScenario(t *testing.T) {
	player := domain.PlayerSnapshot{
		ID: "cow", Position: domain.PositionForward,
		Price: 250000, StartPrice: 250000, Breakeven: 40,
		GamesPlayed: 3, Average: 91, Consistency: domain.GradeB,
		Ownership: 20, Injury: domain.InjuryHealthy,
	}
	players := newFakePlayers(player)
	players.scores["cow"] = []float64{90, 95, 88}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4, Horizon: 5})

	require.Len(t, results, 1)
	cow := results[0]
	require.Len(t, cow.PriceTrajectory, 6, "five round horizon plus the current price")

	best := 0
	for i, p := range cow.PriceTrajectory {
		if p.Price > cow.PriceTrajectory[best].Price {
			best = i
		}
	}
	assert.Equal(t, cow.PriceTrajectory[best].Round, cow.SellWeek)
	assert.Equal(t, cow.PriceTrajectory[best].Price-player.Price, cow.ProjectedGeneration)
}

func TestEngine_AnalyzeCashCows_DerivesGradeFromScoreHistory(t *testing.T) {
	ungraded := cashCowCandidate("steady", 250000)
	ungraded.Consistency = ""
	players := newFakePlayers(ungraded)
	players.scores["steady"] = []float64{90, 90, 90}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4})

	require.Len(t, results, 1)
	assert.Equal(t, 90, results[0].Confidence,
		"a perfectly flat series derives grade A and its base confidence")
}

func TestEngine_AnalyzeCashCows_FiltersByMinimumConfidence(t *testing.T) {
	players := newFakePlayers(cashCowCandidate("cow", 250000))
	players.scores["cow"] = []float64{90, 95, 88}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4, MinConfidence: 90})

	assert.Empty(t, results)
}

func TestEngine_AnalyzeCashCows_RecentRoleChangeCutsConfidence(t *testing.T) {
	players := newFakePlayers(cashCowCandidate("cow", 250000))
	players.scores["cow"] = []float64{90, 95, 88}
	news := &fakeNews{items: map[string][]domain.NewsItem{
		"cow": {{
			ID:        "n1",
			PlayerID:  "cow",
			Type:      domain.NewsRoleChange,
			Headline:  "Moved to the bench rotation",
			Timestamp: time.Now().Add(-2 * 24 * time.Hour),
		}},
	}}
	e := newTestEngine(players, news, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4})

	assert.Len(t, results, 1)
	assert.Equal(t, 60, results[0].Confidence, "grade B base of 80 minus the role change penalty")
}

func TestEngine_AnalyzeCashCows_OwnershipAndInjuryAdjustments(t *testing.T) {
	popular := cashCowCandidate("popular", 240000)
	popular.Ownership = 45

	obscureAndSore := cashCowCandidate("sore", 230000)
	obscureAndSore.Ownership = 5
	obscureAndSore.Injury = domain.InjuryQuestionable

	players := newFakePlayers(popular, obscureAndSore)
	for id := range players.players {
		players.scores[id] = []float64{90, 95, 88}
	}
	e := newTestEngine(players, nil, nil, nil)

	results := e.AnalyzeCashCows(CashCowRequest{Round: 4})

	byID := map[string]domain.CashCowAnalysis{}
	for _, r := range results {
		byID[r.Player.ID] = r
	}

	assert.Equal(t, 90, byID["popular"].Confidence, "high ownership adds 10")
	assert.Equal(t, 40, byID["sore"].Confidence, "low ownership and questionable status each subtract 20")
}

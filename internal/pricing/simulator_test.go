package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fantasyedge/internal/domain"
	"fantasyedge/pkg/logger"
)

func newTestSimulator(model PriceModel) *Simulator {
	log := logger.New(logger.Config{Level: "error"})
	return NewSimulator(model, log)
}

func veteran(price, breakeven, gamesPlayed int) domain.PlayerSnapshot {
	return domain.PlayerSnapshot{
		ID:          "p1",
		Price:       price,
		Breakeven:   breakeven,
		GamesPlayed: gamesPlayed,
	}
}

func constantScores(score float64, n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = score
	}
	return scores
}

func TestSimulator_Simulate_TrajectoryLength(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(500000, 80, 5)

	trajectory := sim.Simulate(player, constantScores(100, 13), 8, 9650)

	assert.Len(t, trajectory, 9, "horizon of 8 rounds yields current price plus 8 projections")
	assert.Equal(t, 0, trajectory[0].Round)
	assert.Equal(t, 500000, trajectory[0].Price)
	assert.Equal(t, 1.0, trajectory[0].Confidence)
	assert.Equal(t, 8, trajectory[len(trajectory)-1].Round)
}

func TestSimulator_Simulate_ConfidenceNeverIncreases(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(400000, 60, 5)

	trajectory := sim.Simulate(player, constantScores(90, 20), 15, 9650)

	for i := 1; i < len(trajectory); i++ {
		assert.LessOrEqual(t, trajectory[i].Confidence, trajectory[i-1].Confidence,
			"confidence must not increase between rounds %d and %d", i-1, i)
	}
	// Deep rounds bottom out at the floor rather than going negative.
	assert.Equal(t, 0.25, trajectory[len(trajectory)-1].Confidence)
}

func TestSimulator_Simulate_BreakevenDerivedFromPostDeltaPrice(t *testing.T) {
	// A stub model makes the recurrence arithmetic exact: delta is
	// (score - breakeven) * 100, so the breakeven fed into round two reveals
	// whether it was derived from the updated price or the stale one.
	stub := func(score, breakeven, magicNumber float64) float64 {
		return (score - breakeven) * 100
	}
	sim := newTestSimulator(stub)
	player := veteran(500000, 50, 5)

	trajectory := sim.Simulate(player, constantScores(100, 7), 2, 9650)

	// Round 1: delta = (100-50)*100 = 5000.
	assert.Equal(t, 505000, trajectory[1].Price)

	// Breakeven after round 1 = round((505000/9650)*0.9) = 47, so round 2's
	// delta is (100-47)*100 = 5300. A stale breakeven of 50 would give 5000.
	assert.Equal(t, 510300, trajectory[2].Price)
}

func TestSimulator_Simulate_RookieHoldsPriceBeforeThirdGame(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(200000, 30, 1)

	trajectory := sim.Simulate(player, []float64{90}, 1, 9650)

	assert.Len(t, trajectory, 2)
	assert.Equal(t, 200000, trajectory[1].Price, "rookies do not reprice before the third observation")
}

func TestSimulator_Simulate_RookieRepricesOnThirdObservation(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(200000, 30, 2)

	trajectory := sim.Simulate(player, []float64{90, 95, 88}, 1, 9650)

	// Third observation sets the price from the three-game average directly:
	// round(((90+95+88)/3) * 9650) = round(91 * 9650).
	assert.Equal(t, 878150, trajectory[1].Price)
}

func TestSimulator_Simulate_EmptyScoresYieldsSinglePoint(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(350000, 55, 4)

	trajectory := sim.Simulate(player, nil, 8, 9650)

	assert.Len(t, trajectory, 1)
	assert.Equal(t, 350000, trajectory[0].Price)
	assert.Equal(t, 1.0, trajectory[0].Confidence)
}

func TestSimulator_Simulate_ShortSeriesRepeatsLastScore(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(450000, 70, 3)

	// Only three known scores but a five round horizon: the last score
	// carries forward instead of panicking.
	trajectory := sim.Simulate(player, []float64{80, 85, 90}, 5, 9650)

	assert.Len(t, trajectory, 6)
	for i := 1; i < len(trajectory); i++ {
		assert.Greater(t, trajectory[i].Price, 0)
	}
}

func TestSimulator_FloorCeiling_BracketsCurrentPrice(t *testing.T) {
	sim := newTestSimulator(DefaultPriceModel)
	player := veteran(400000, 60, 5)

	floor, ceiling := sim.FloorCeiling(player, 20, 120, 9650)

	assert.Less(t, floor, player.Price, "pessimistic scoring drags the floor below today's price")
	assert.Greater(t, ceiling, player.Price, "optimistic scoring lifts the ceiling above today's price")
}

func TestPeak_ReturnsMaxPriceAndRound(t *testing.T) {
	trajectory := []domain.PriceProjection{
		{Round: 0, Price: 100000},
		{Round: 1, Price: 140000},
		{Round: 2, Price: 120000},
	}

	price, round := Peak(trajectory)

	assert.Equal(t, 140000, price)
	assert.Equal(t, 1, round)
}

func TestPeak_TakesFirstOccurrenceOnTies(t *testing.T) {
	trajectory := []domain.PriceProjection{
		{Round: 0, Price: 100000},
		{Round: 1, Price: 140000},
		{Round: 2, Price: 140000},
	}

	_, round := Peak(trajectory)

	assert.Equal(t, 1, round)
}

func TestPeak_EmptyTrajectory(t *testing.T) {
	price, round := Peak(nil)

	assert.Equal(t, 0, price)
	assert.Equal(t, 0, round)
}

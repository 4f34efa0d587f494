package pricing

import (
	"math"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

const (
	// rookieObservationThreshold is the number of observed scores required
	// before a rookie starts repricing.
	rookieObservationThreshold = 3

	// boundWindowRounds is the fixed window for floor/ceiling estimation.
	boundWindowRounds = 3

	// breakevenFactor scales price into next round's breakeven.
	breakevenFactor = 0.9

	// confidenceStep is how much projection confidence decays per round.
	confidenceStep = 0.1

	// confidenceFloor is the minimum projection confidence.
	confidenceFloor = 0.25
)

// Simulator iterates a PriceModel round-by-round to produce price and
// breakeven sequences, floors, ceilings, and peak-round estimates.
type Simulator struct {
	model PriceModel
	log   zerolog.Logger
}

// NewSimulator creates a trajectory simulator around an injected price model.
func NewSimulator(model PriceModel, log zerolog.Logger) *Simulator {
	return &Simulator{
		model: model,
		log:   log.With().Str("component", "simulator").Logger(),
	}
}

// Simulate projects a player's price over horizonRounds future rounds.
//
// scores is the player's full known score series, oldest first: the first
// GamesPlayed entries are observed, the remainder projected. The returned
// trajectory has horizonRounds+1 entries (the current price plus one per
// simulated round) and confidence never increases along it.
//
// Players with fewer than three observed scores do not reprice until the
// third observation; that single transition sets the price directly from the
// three-game average times the magic number, after which the normal
// recurrence resumes.
//
// An empty score series yields a single-point trajectory at the current
// price: no extrapolation without data.
func (s *Simulator) Simulate(player domain.PlayerSnapshot, scores []float64, horizonRounds int, magicNumber float64) []domain.PriceProjection {
	if len(scores) == 0 || horizonRounds < 0 {
		return []domain.PriceProjection{{Round: 0, Price: player.Price, Confidence: 1.0}}
	}

	trajectory := make([]domain.PriceProjection, 0, horizonRounds+1)
	trajectory = append(trajectory, domain.PriceProjection{Round: 0, Price: player.Price, Confidence: 1.0})

	price := float64(player.Price)
	breakeven := float64(player.Breakeven)
	observed := player.GamesPlayed

	for i := 1; i <= horizonRounds; i++ {
		score := scoreAt(scores, observed)
		observed++

		switch {
		case player.GamesPlayed < rookieObservationThreshold && observed < rookieObservationThreshold:
			// Rookies hold their starting price until the third observation.

		case player.GamesPlayed < rookieObservationThreshold && observed == rookieObservationThreshold:
			// Single repricing transition: three-game average sets the price
			// directly, bypassing the delta recurrence for this round only.
			avg := mean(scores[:min(rookieObservationThreshold, len(scores))])
			price = math.Round(avg * magicNumber)
			breakeven = math.Round((price / magicNumber) * breakevenFactor)

		default:
			// Breakeven for the next round is derived from the post-delta
			// price, never carried forward independently.
			delta := s.model(score, breakeven, magicNumber)
			price += delta
			breakeven = math.Round((price / magicNumber) * breakevenFactor)
		}

		trajectory = append(trajectory, domain.PriceProjection{
			Round:      i,
			Price:      int(math.Round(price)),
			Confidence: confidenceAt(i),
		})
	}

	return trajectory
}

// FloorCeiling bounds worst/best case prices by running the recurrence with a
// pessimistic and an optimistic constant score over a fixed short window.
func (s *Simulator) FloorCeiling(player domain.PlayerSnapshot, floorScore, ceilingScore, magicNumber float64) (floor, ceiling int) {
	floorTraj := s.constantScoreTrajectory(player, floorScore, magicNumber)
	ceilTraj := s.constantScoreTrajectory(player, ceilingScore, magicNumber)

	floor = player.Price
	for _, p := range floorTraj {
		if p.Price < floor {
			floor = p.Price
		}
	}
	ceiling = player.Price
	for _, p := range ceilTraj {
		if p.Price > ceiling {
			ceiling = p.Price
		}
	}
	return floor, ceiling
}

// Peak returns the maximum price in a trajectory and its round index,
// taking the first occurrence on ties.
func Peak(trajectory []domain.PriceProjection) (peakPrice, peakRound int) {
	if len(trajectory) == 0 {
		return 0, 0
	}
	peakPrice = trajectory[0].Price
	peakRound = trajectory[0].Round
	for _, p := range trajectory[1:] {
		if p.Price > peakPrice {
			peakPrice = p.Price
			peakRound = p.Round
		}
	}
	return peakPrice, peakRound
}

// constantScoreTrajectory runs the recurrence with one repeated score.
func (s *Simulator) constantScoreTrajectory(player domain.PlayerSnapshot, score, magicNumber float64) []domain.PriceProjection {
	scores := make([]float64, player.GamesPlayed+boundWindowRounds)
	for i := range scores {
		scores[i] = score
	}
	return s.Simulate(player, scores, boundWindowRounds, magicNumber)
}

// scoreAt returns the score consumed at a given observation index, clamped
// to the last known score so short series degrade instead of panicking.
func scoreAt(scores []float64, idx int) float64 {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scores) {
		idx = len(scores) - 1
	}
	return scores[idx]
}

func confidenceAt(round int) float64 {
	c := 1.0 - confidenceStep*float64(round)
	if c < confidenceFloor {
		c = confidenceFloor
	}
	return c
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

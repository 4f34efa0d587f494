// Package pricing implements the iterative price trajectory simulator.
//
// The numeric formula converting a score/breakeven pair into a price delta is
// a host-supplied business rule. The simulator only owns the round-by-round
// protocol around it: apply the delta, then derive next round's breakeven
// from the new price.
package pricing

import "math"

// PriceModel computes the price delta for a single round.
// Implementations must be pure and deterministic.
type PriceModel func(score, breakeven, magicNumber float64) float64

// DefaultPriceModel is the host's standard pricing formula: the delta is
// proportional to how far the score lands from the breakeven, scaled by the
// magic number.
func DefaultPriceModel(score, breakeven, magicNumber float64) float64 {
	return math.Round((score - breakeven) * magicNumber / 100)
}

package rating

import "math"

// Calculator computes rating deltas from match outcomes. It is pure: no
// side effects, no I/O.
type Calculator struct {
	ratingFactor float64
	kFactor      float64
}

// NewCalculator creates a Calculator with the given coefficients.
// ratingFactor is the spread divisor of the logistic expectation and
// kFactor scales the per-game change.
func NewCalculator(ratingFactor, kFactor float64) *Calculator {
	return &Calculator{
		ratingFactor: ratingFactor,
		kFactor:      kFactor,
	}
}

// ComputeDelta returns the signed rating change for player A. The caller
// applies +delta to A and -delta to B.
//
// The expectation E = 1 / (1 + 10^((ratingB-ratingA)/ratingFactor)) is the
// probability model's expected score share for A; the delta rewards A in
// proportion to how far the effective scores exceed that share.
func (c *Calculator) ComputeDelta(ratingA, ratingB float64, scoreA, scoreB int, discipline Discipline) (float64, error) {
	expectation := 1 / (1 + math.Pow(10, (ratingB-ratingA)/c.ratingFactor))

	var effA, effB float64
	switch discipline {
	case DisciplineNormal:
		effA, effB = float64(scoreA), float64(scoreB)
	case DisciplineStraight:
		effA, effB = straightFactors(scoreA, scoreB)
	default:
		return 0, &GameTypeNotSupportedError{Discipline: string(discipline)}
	}

	return c.kFactor * (effA - expectation*(effA+effB)), nil
}

// straightFactors scales 14.1 scores into comparable units so a lopsided
// straight-pool score does not produce a disproportionate delta. The loser's
// factor shrinks quadratically with the blowout ratio. A race to 0 is a
// valid edge case: both factors are 0 when both scores are 0, and the
// divisor is otherwise always the winner's (strictly positive) score.
func straightFactors(scoreA, scoreB int) (float64, float64) {
	a, b := float64(scoreA), float64(scoreB)
	switch {
	case scoreA > scoreB:
		return b / 10, math.Floor(b / a * b / 10)
	case scoreB > scoreA:
		return math.Floor(a / b * a / 10), a / 10
	case scoreA == 0:
		return 0, 0
	default: // tie
		return math.Floor(a / 10), a / 10
	}
}

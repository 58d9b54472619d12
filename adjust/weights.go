package adjust

import "math"

// Canned weight schedules. All of them return WeightFunc values so they
// stay injected configuration: the solver applies whatever it is handed
// and never assumes a decay shape.

// UniformWeight returns a schedule that weighs every game w.
func UniformWeight(w float64) WeightFunc {
	return func(int) float64 { return w }
}

// StepWeights returns a schedule backed by an explicit table: the k-th
// game of a team (k = 1, 2, ...) takes table[k-1]; games beyond the table
// take tail. This is the shape a configuration file supplies.
func StepWeights(table []float64, tail float64) WeightFunc {
	// Copy so later mutation of the caller's slice cannot change weights
	// mid-season.
	own := make([]float64, len(table))
	copy(own, table)

	return func(gamesPlayed int) float64 {
		if gamesPlayed >= 1 && gamesPlayed <= len(own) {
			return own[gamesPlayed-1]
		}

		return tail
	}
}

// RampWeight returns a schedule that down-weights the start of a season:
// the opener takes w0, weights ramp linearly up to 1.0 at game `full`,
// and stay 1.0 after. full must be ≥ 1; a smaller value behaves as 1.
func RampWeight(w0 float64, full int) WeightFunc {
	if full < 1 {
		full = 1
	}

	return func(gamesPlayed int) float64 {
		if gamesPlayed >= full {
			return 1.0
		}
		if gamesPlayed < 1 {
			gamesPlayed = 1
		}
		// full >= 2 here, so the denominator is at least 1.
		frac := float64(gamesPlayed-1) / float64(full-1)

		return w0 + (1.0-w0)*frac
	}
}

// ConstantPreseason returns a preseason weight schedule fixed at w
// regardless of how many games a team has played.
func ConstantPreseason(w float64) WeightFunc {
	return func(int) float64 { return w }
}

// DecayingPreseason returns a preseason weight that starts at w0 for a
// team with no games and halves every halfLife games played, so the prior
// dominates early and dies out as real results accumulate. halfLife must
// be positive; non-positive values behave as a constant w0.
func DecayingPreseason(w0, halfLife float64) WeightFunc {
	if halfLife <= 0 {
		return ConstantPreseason(w0)
	}

	return func(gamesPlayed int) float64 {
		if gamesPlayed <= 0 {
			return w0
		}

		return w0 * math.Exp2(-float64(gamesPlayed)/halfLife)
	}
}

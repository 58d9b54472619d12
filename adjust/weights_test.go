package adjust_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtmetrics/adjrate/adjust"
)

// TestUniformWeight returns the same weight for every game.
func TestUniformWeight(t *testing.T) {
	w := adjust.UniformWeight(0.7)
	for _, k := range []int{1, 2, 10, 1000} {
		assert.Equal(t, 0.7, w(k), "game %d", k)
	}
}

// TestStepWeights maps a team's k-th game to the table and falls back to
// the tail beyond it.
func TestStepWeights(t *testing.T) {
	w := adjust.StepWeights([]float64{0.25, 0.5, 0.75}, 1.0)

	assert.Equal(t, 0.25, w(1), "opener takes table[0]")
	assert.Equal(t, 0.5, w(2), "second game takes table[1]")
	assert.Equal(t, 0.75, w(3), "third game takes table[2]")
	assert.Equal(t, 1.0, w(4), "beyond the table takes the tail")
	assert.Equal(t, 1.0, w(0), "out-of-range argument takes the tail")
}

// TestStepWeights_CopiesTable ensures later mutation of the caller's slice
// cannot change weights mid-season.
func TestStepWeights_CopiesTable(t *testing.T) {
	table := []float64{0.5}
	w := adjust.StepWeights(table, 1.0)
	table[0] = 99

	assert.Equal(t, 0.5, w(1), "schedule must own its table")
}

// TestRampWeight ramps from w0 to 1.0 and stays there.
func TestRampWeight(t *testing.T) {
	w := adjust.RampWeight(0.4, 5)

	assert.Equal(t, 0.4, w(1), "opener takes w0")
	assert.Equal(t, 1.0, w(5), "full weight at game `full`")
	assert.Equal(t, 1.0, w(50), "full weight afterwards")

	prev := w(1)
	for k := 2; k <= 5; k++ {
		assert.GreaterOrEqual(t, w(k), prev, "ramp must be non-decreasing at game %d", k)
		prev = w(k)
	}
}

// TestConstantPreseason ignores the game count.
func TestConstantPreseason(t *testing.T) {
	w := adjust.ConstantPreseason(0.3)
	assert.Equal(t, 0.3, w(0))
	assert.Equal(t, 0.3, w(30))
}

// TestDecayingPreseason starts at w0, halves every halfLife games, and is
// strictly decreasing.
func TestDecayingPreseason(t *testing.T) {
	w := adjust.DecayingPreseason(0.5, 4)

	assert.Equal(t, 0.5, w(0), "no games → full preseason weight")
	assert.InDelta(t, 0.25, w(4), 1e-12, "one half-life halves the weight")
	assert.InDelta(t, 0.125, w(8), 1e-12, "two half-lives quarter it")

	prev := w(0)
	for k := 1; k <= 10; k++ {
		assert.Less(t, w(k), prev, "weight must strictly decay at game %d", k)
		prev = w(k)
	}
}

// TestDecayingPreseason_BadHalfLife degrades to a constant.
func TestDecayingPreseason_BadHalfLife(t *testing.T) {
	w := adjust.DecayingPreseason(0.5, 0)
	assert.Equal(t, 0.5, w(10), "non-positive half-life behaves as constant")
}

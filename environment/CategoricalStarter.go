package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting states sampled from a uniform
// categorical distribution over (0, 1, 2, ... states-1).
type CategoricalStarter struct {
	states int
	rand   distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter sampling
// uniformly from the first states states, drawing randomness from
// source.
func NewCategoricalStarter(states int, source rand.Source) CategoricalStarter {
	if states <= 0 {
		panic("newCategoricalStarter: state space must be non-empty")
	}

	weights := make([]float64, states)
	for i := range weights {
		weights[i] = 1.0 / float64(states)
	}

	return CategoricalStarter{states, distuv.NewCategorical(weights, source)}
}

// Start returns a starting state
func (c CategoricalStarter) Start() State {
	return State(c.rand.Rand())
}

// Len returns the number of states the starter samples from
func (c CategoricalStarter) Len() int {
	return c.states
}

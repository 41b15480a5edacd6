// Package timestep implements single transitions of the interaction
// between a learner and a tabular environment
package timestep

import (
	"fmt"

	env "github.com/samuelfneumann/netql/environment"
)

// Transition packages together a single sampled update: the state the
// learner was in, the action (next state) it took, the reward it
// received and the temporal difference correction it applied.
type Transition struct {
	Number  int
	State   env.State
	Action  env.State
	Reward  float64
	TdError float64
}

// New returns a new Transition
func New(n int, s, a env.State, r, td float64) Transition {
	return Transition{n, s, a, r, td}
}

func (t Transition) String() string {
	str := "Transition | Number: %v  |  State: %v  |  Action: %v  |  " +
		"Reward: %.2f  |  TD Error: %.4f"

	return fmt.Sprintf(str, t.Number, t.State, t.Action, t.Reward, t.TdError)
}

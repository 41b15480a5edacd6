package trackers

import (
	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/experiment/tracker"
	ts "github.com/samuelfneumann/netql/timestep"
)

// Visits counts how many times each state was sampled as the state
// of an update, and how many times it was chosen as the action
type Visits struct {
	states   []float64
	actions  []float64
	filename string
}

// NewVisits returns a new Visits tracker for a state space of states
// states, saving to filename
func NewVisits(states int, filename string) *Visits {
	return &Visits{
		states:   make([]float64, states),
		actions:  make([]float64, states),
		filename: filename,
	}
}

// Track counts the state and action of a transition
func (v *Visits) Track(t ts.Transition) {
	v.states[t.State]++
	v.actions[t.Action]++
}

// States returns the number of updates made from state s
func (v *Visits) States(s env.State) int {
	return int(v.states[s])
}

// Actions returns the number of updates that chose s as the action
func (v *Visits) Actions(s env.State) int {
	return int(v.actions[s])
}

// Save saves the state visitation counts to disk
func (v *Visits) Save() error {
	return tracker.SaveData(v.filename, v.states)
}

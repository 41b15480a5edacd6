// Package environment outlines the interfaces shared by discrete,
// tabular environments and the agents that learn in them
package environment

// State is an index into a finite state space. Actions are identified
// with the state they lead to, so an action is also a State.
type State int

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() State
}

// Task implements the reward scheme and the legal transitions of a
// discrete environment.
//
// States are numbered [0, States()). Reward must be defined for every
// pair of states, legal or not, since value tables are dense over both
// dimensions.
type Task interface {
	// States returns the number of states in the state space
	States() int

	// Reward returns the immediate reward for moving from actual to
	// next
	Reward(actual, next State) float64

	// Actions returns the states reachable from actual in one step.
	// The returned slice is never empty.
	Actions(actual State) []State

	// Goal returns the terminal state of the task
	Goal() State

	// AtGoal returns whether a state is the terminal state
	AtGoal(s State) bool
}

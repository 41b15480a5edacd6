// Package agent defines the interfaces of tabular agents
package agent

import (
	env "github.com/samuelfneumann/netql/environment"
	"gonum.org/v1/gonum/mat"
)

// Learner implements a learning algorithm that fills a value table.
//
// The table has one row per state and one column per action, where
// actions are identified with the state they lead to.
type Learner interface {
	// Train runs the learning algorithm and returns the learned table.
	// Each call starts from a fresh table.
	Train() (*mat.Dense, error)

	// Table returns the table of the last successful call to Train,
	// or nil if Train has never succeeded
	Table() *mat.Dense
}

// Policy represents a policy that an agent can have. Policies determine
// how agents select actions.
type Policy interface {
	SelectAction(s env.State) env.State
}

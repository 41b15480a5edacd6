package network

import (
	"fmt"

	env "github.com/samuelfneumann/netql/environment"
	"gonum.org/v1/gonum/mat"
)

// Rewards of the Infect task. The goal reward must dominate any
// accumulated path cost, and the illegal move penalty must be lower
// than the cost of any legal path.
const (
	GoalReward     float64 = 999
	InfectPenalty  float64 = -5
	IdlePenalty    float64 = -1
	LeafPenalty    float64 = -3
	IllegalPenalty float64 = -111
)

// Infect is the task of reaching the infected variant of a network's
// target node. Moving between adjacent nodes costs the risk of the
// destination, or LeafPenalty if the destination is a leaf; infecting
// a node other than the target costs InfectPenalty and idling costs
// IdlePenalty.
//
// Infect reads the model on every call, so the model must not be
// changed while an agent is learning.
type Infect struct {
	model Model
	space Space
}

// NewInfect returns a new Infect task on model
func NewInfect(model Model) (*Infect, error) {
	nodes := model.Nodes()
	if nodes <= 0 {
		return nil, fmt.Errorf("newInfect: %w", ErrEmpty)
	}
	if t := model.Target(); t < 0 || t >= nodes {
		return nil, fmt.Errorf("newInfect: target %d not in [0, %d): %w", t,
			nodes, ErrNodeRange)
	}

	return &Infect{model: model, space: NewSpace(nodes)}, nil
}

// Space returns the state space of the task
func (i *Infect) Space() Space {
	return i.space
}

// Model returns the network model the task is defined on
func (i *Infect) Model() Model {
	return i.model
}

// States returns the number of states, twice the number of nodes
func (i *Infect) States() int {
	return i.space.Len()
}

// Goal returns the infected state of the target node
func (i *Infect) Goal() env.State {
	return i.space.Infected(i.model.Target())
}

// AtGoal returns whether s is the infected state of the target node
func (i *Infect) AtGoal(s env.State) bool {
	return s == i.Goal()
}

// Reward returns the immediate reward of moving from state actual to
// state next. Rules are checked in order: infecting the current node,
// staying in place, moving along an edge, and anything else is an
// illegal move.
func (i *Infect) Reward(actual, next env.State) float64 {
	nodes := i.space.Nodes()
	target := i.model.Target()

	// Infect the current node
	if int(next) == int(actual)+nodes {
		if int(actual) == target {
			return GoalReward
		}
		return InfectPenalty
	}

	// Stay in place
	if next == actual {
		if i.AtGoal(actual) {
			return GoalReward
		}
		return IdlePenalty
	}

	// Move along a connection, whatever the infection flags
	from, to := i.space.Node(actual), i.space.Node(next)
	if i.model.HasEdge(from, to) {
		if i.model.Degree(to) == 1 {
			return LeafPenalty
		}
		return -float64(i.model.Risk(to))
	}

	return IllegalPenalty
}

// Actions returns the states reachable from actual: staying in place,
// infecting the current node if it is clean, and moving to the clean
// state of any neighbour. The result is sorted ascending.
func (i *Infect) Actions(actual env.State) []env.State {
	node := i.space.Node(actual)
	neighbours := i.model.Neighbours(node)

	actions := make([]env.State, 0, len(neighbours)+2)
	inserted := false
	for _, n := range neighbours {
		clean := i.space.Clean(n)
		if !inserted && clean > actual {
			actions = append(actions, actual)
			inserted = true
		}
		actions = append(actions, clean)
	}
	if !inserted {
		actions = append(actions, actual)
	}

	if !i.space.IsInfected(actual) {
		actions = append(actions, i.space.Infected(node))
	}

	return actions
}

// RewardMatrix materialises the reward of every (state, next state)
// pair. Row i holds the rewards of leaving state i.
func (i *Infect) RewardMatrix() *mat.Dense {
	n := i.States()
	rewards := mat.NewDense(n, n, nil)
	rewards.Apply(func(r, c int, _ float64) float64 {
		return i.Reward(env.State(r), env.State(c))
	}, rewards)

	return rewards
}

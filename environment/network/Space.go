package network

import (
	"fmt"

	env "github.com/samuelfneumann/netql/environment"
)

// Space is the doubled state space of a network with N nodes. States
// [0, N) are clean nodes and states [N, 2N) are infected nodes.
type Space struct {
	nodes int
}

// NewSpace returns the state space of a network with nodes nodes
func NewSpace(nodes int) Space {
	return Space{nodes}
}

// Len returns the number of states, 2N
func (s Space) Len() int {
	return 2 * s.nodes
}

// Nodes returns the number of nodes N
func (s Space) Nodes() int {
	return s.nodes
}

// Contains returns whether st is a state of the space
func (s Space) Contains(st env.State) bool {
	return st >= 0 && int(st) < s.Len()
}

// Node returns the node underlying state st
func (s Space) Node(st env.State) int {
	return int(st) % s.nodes
}

// IsInfected returns whether st is the infected variant of its node
func (s Space) IsInfected(st env.State) bool {
	return int(st) >= s.nodes
}

// Clean returns the clean state of node
func (s Space) Clean(node int) env.State {
	return env.State(node)
}

// Infected returns the infected state of node
func (s Space) Infected(node int) env.State {
	return env.State(node + s.nodes)
}

// Format returns a human readable form of st: the node id, followed by
// an asterisk if the node is infected
func (s Space) Format(st env.State) string {
	if s.IsInfected(st) {
		return fmt.Sprintf("%d*", s.Node(st))
	}
	return fmt.Sprintf("%d", s.Node(st))
}

// Package network implements computer-network topologies and the
// infection task that an agent learns to solve on them.
//
// A topology with N nodes induces a doubled state space of 2N states:
// state s in [0, N) is node s before infection and state s in [N, 2N)
// is node s-N after infection. The agent starts anywhere and must
// reach the infected variant of a designated target node.
package network

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Risk levels of nodes
const (
	BaselineRisk int = 1
	HighRisk     int = 10
)

var (
	// ErrNodeRange is returned when a node id falls outside [0, N)
	ErrNodeRange = errors.New("node out of range")

	// ErrEmpty is returned when a network would have no nodes
	ErrEmpty = errors.New("network has no nodes")

	// ErrSelfLoop is returned when an edge connects a node to itself
	ErrSelfLoop = errors.New("self loops are not allowed")
)

// Model is the view of a topology consumed by the infection task. It
// answers topology queries and exposes per-node risk attributes.
type Model interface {
	// Nodes returns the number of nodes N
	Nodes() int

	// HasEdge returns whether nodes u and v are connected
	HasEdge(u, v int) bool

	// Neighbours returns the nodes adjacent to u in ascending order
	Neighbours(u int) []int

	// Degree returns the number of edges incident to u
	Degree(u int) int

	// Risk returns the risk level of u
	Risk(u int) int

	// Target returns the id of the node to infect
	Target() int
}

// Network is an undirected computer network backed by a gonum graph.
// Nodes are numbered [0, N).
type Network struct {
	g      *simple.UndirectedGraph
	risk   []int
	target int
}

// New creates a network with nodes nodes, the given edges and the
// given target node. All nodes start at baseline risk.
func New(nodes int, edges [][2]int, target int) (*Network, error) {
	if nodes <= 0 {
		return nil, fmt.Errorf("new: %w", ErrEmpty)
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < nodes; i++ {
		g.AddNode(simple.Node(i))
	}

	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= nodes || v < 0 || v >= nodes {
			return nil, fmt.Errorf("new: edge (%d, %d): %w", u, v, ErrNodeRange)
		}
		if u == v {
			return nil, fmt.Errorf("new: edge (%d, %d): %w", u, v, ErrSelfLoop)
		}
		g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
	}

	return newNetwork(g, nodes, target)
}

// FromGraph wraps an existing undirected graph whose node ids are
// exactly 0, 1, ..., N-1. The graph is used directly and must not be
// modified afterwards.
func FromGraph(g *simple.UndirectedGraph, target int) (*Network, error) {
	nodes := g.Nodes().Len()
	if nodes <= 0 {
		return nil, fmt.Errorf("fromGraph: %w", ErrEmpty)
	}

	for _, n := range graph.NodesOf(g.Nodes()) {
		if id := n.ID(); id < 0 || id >= int64(nodes) {
			return nil, fmt.Errorf("fromGraph: node id %d not in [0, %d): %w",
				id, nodes, ErrNodeRange)
		}
	}

	return newNetwork(g, nodes, target)
}

func newNetwork(g *simple.UndirectedGraph, nodes, target int) (*Network, error) {
	risk := make([]int, nodes)
	for i := range risk {
		risk[i] = BaselineRisk
	}

	n := &Network{g: g, risk: risk}
	if err := n.SelectTarget(target); err != nil {
		return nil, err
	}
	return n, nil
}

// Nodes returns the number of nodes in the network
func (n *Network) Nodes() int {
	return len(n.risk)
}

// HasEdge returns whether nodes u and v are connected
func (n *Network) HasEdge(u, v int) bool {
	return n.g.HasEdgeBetween(int64(u), int64(v))
}

// Neighbours returns the nodes adjacent to u in ascending order
func (n *Network) Neighbours(u int) []int {
	adjacent := graph.NodesOf(n.g.From(int64(u)))

	ids := make([]int, len(adjacent))
	for i, node := range adjacent {
		ids[i] = int(node.ID())
	}
	sort.Ints(ids)

	return ids
}

// Degree returns the number of edges incident to u
func (n *Network) Degree(u int) int {
	return n.g.From(int64(u)).Len()
}

// Leaf returns whether u has exactly one incident edge
func (n *Network) Leaf(u int) bool {
	return n.Degree(u) == 1
}

// Risk returns the risk level of u
func (n *Network) Risk(u int) int {
	return n.risk[u]
}

// Target returns the node to infect
func (n *Network) Target() int {
	return n.target
}

// SelectTarget sets the node to infect
func (n *Network) SelectTarget(target int) error {
	if !n.contains(target) {
		return fmt.Errorf("selectTarget: target %d not in [0, %d): %w",
			target, n.Nodes(), ErrNodeRange)
	}
	n.target = target
	return nil
}

// SetHighRisk resets every node to baseline risk and then marks the
// argument nodes as high risk. If any node is out of range, the risk
// levels are left untouched.
func (n *Network) SetHighRisk(nodes []int) error {
	for _, u := range nodes {
		if !n.contains(u) {
			return fmt.Errorf("setHighRisk: node %d not in [0, %d): %w",
				u, n.Nodes(), ErrNodeRange)
		}
	}

	for i := range n.risk {
		n.risk[i] = BaselineRisk
	}
	for _, u := range nodes {
		n.risk[u] = HighRisk
	}
	return nil
}

// HighRiskNodes returns the high risk nodes in ascending order
func (n *Network) HighRiskNodes() []int {
	var nodes []int
	for i, r := range n.risk {
		if r >= HighRisk {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// Connected returns whether a path exists between nodes u and v
func (n *Network) Connected(u, v int) bool {
	if !n.contains(u) || !n.contains(v) {
		return false
	}
	return topo.PathExistsIn(n.g, n.g.Node(int64(u)), n.g.Node(int64(v)))
}

// Edges returns every edge of the network once, as (low, high) pairs
// sorted ascending
func (n *Network) Edges() [][2]int {
	var edges [][2]int
	for u := 0; u < n.Nodes(); u++ {
		for _, v := range n.Neighbours(u) {
			if u < v {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return edges
}

// Graph returns the underlying graph. It must be treated as read-only.
func (n *Network) Graph() graph.Undirected {
	return n.g
}

func (n *Network) contains(u int) bool {
	return u >= 0 && u < n.Nodes()
}

func (n *Network) String() string {
	str := "Network | Nodes: %d  |  Edges: %d  |  Target: %d  |  " +
		"High Risk: %v"
	return fmt.Sprintf(str, n.Nodes(), len(n.Edges()), n.target,
		n.HighRiskNodes())
}

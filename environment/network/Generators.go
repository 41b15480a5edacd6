package network

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"
)

// Defaults of the predefined tree topology
const (
	TreeNodes  int = 9
	TreeTarget int = 5
)

// DefaultRiskRatio is the fraction of nodes marked high risk in random
// topologies when no explicit list is given
const DefaultRiskRatio float64 = 0.25

// TreeEdges are the edges of the predefined nine node tree
var TreeEdges = [][2]int{
	{0, 1}, {1, 2}, {1, 3}, {2, 4}, {2, 5}, {3, 6}, {3, 7}, {3, 8},
}

// TreeHighRisk are the high risk nodes of the predefined tree
var TreeHighRisk = []int{6}

// NewTree returns the predefined nine node tree with target node 5 and
// node 6 marked high risk
func NewTree() *Network {
	n, err := New(TreeNodes, TreeEdges, TreeTarget)
	if err != nil {
		panic(fmt.Sprintf("newTree: %v", err))
	}
	if err := n.SetHighRisk(TreeHighRisk); err != nil {
		panic(fmt.Sprintf("newTree: %v", err))
	}
	return n
}

// NewRandom returns an internet-like network of nodes nodes grown by
// preferential attachment, where each new node attaches to attach
// existing nodes. Each node is marked high risk with probability
// riskRatio. The same seed always produces the same network.
func NewRandom(nodes, attach int, riskRatio float64, target int,
	seed uint64) (*Network, error) {
	if nodes <= 0 {
		return nil, fmt.Errorf("newRandom: %w", ErrEmpty)
	}
	if attach < 1 || (nodes > 1 && attach >= nodes) {
		return nil, fmt.Errorf("newRandom: attachment %d not in [1, %d)",
			attach, nodes)
	}
	if riskRatio < 0 || riskRatio > 1 {
		return nil, fmt.Errorf("newRandom: risk ratio %v not in [0, 1]",
			riskRatio)
	}

	source := rand.NewSource(seed)

	g := simple.NewUndirectedGraph()
	if nodes > 1 {
		if err := gen.PreferentialAttachment(g, nodes, attach, source); err != nil {
			return nil, fmt.Errorf("newRandom: %w", err)
		}
	}
	for i := 0; i < nodes; i++ {
		if g.Node(int64(i)) == nil {
			g.AddNode(simple.Node(i))
		}
	}

	n, err := FromGraph(g, target)
	if err != nil {
		return nil, fmt.Errorf("newRandom: %w", err)
	}

	rng := rand.New(source)
	var highRisk []int
	for i := 0; i < nodes; i++ {
		if rng.Float64() < riskRatio {
			highRisk = append(highRisk, i)
		}
	}
	if err := n.SetHighRisk(highRisk); err != nil {
		return nil, fmt.Errorf("newRandom: %w", err)
	}

	return n, nil
}

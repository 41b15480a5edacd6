// Package render draws networks and the routes learned on them, as DOT
// documents for graphviz and as interactive HTML pages
package render

import (
	"fmt"
	"strconv"

	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/environment/network"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Colours of the drawn nodes and edges
const (
	BaselineColour = "#1f77b4"
	HighRiskColour = "#ff7f0e"
	TargetColour   = "#d62728"
	RouteColour    = "#2ca02c"
)

// dotNode is a network node carrying DOT attributes
type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64                        { return n.id }
func (n dotNode) DOTID() string                    { return strconv.FormatInt(n.id, 10) }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

// dotEdge is a network edge carrying DOT attributes
type dotEdge struct {
	f, t  dotNode
	attrs []encoding.Attribute
}

func (e dotEdge) From() graph.Node                 { return e.f }
func (e dotEdge) To() graph.Node                   { return e.t }
func (e dotEdge) ReversedEdge() graph.Edge         { return dotEdge{f: e.t, t: e.f, attrs: e.attrs} }
func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

// dotGraph adds graph level DOT attributes to an undirected graph
type dotGraph struct {
	*simple.UndirectedGraph
	graph, node, edge encoding.Attributes
}

func (g dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &g.graph, &g.node, &g.edge
}

// DOT returns a graphviz document of the network n. High risk nodes and
// the target are coloured, and the nodes and edges along path, a route
// through the state space of n, are highlighted.
func DOT(n *network.Network, path []env.State) ([]byte, error) {
	onRoute, routeEdges := routeOf(n, path)

	g := dotGraph{
		UndirectedGraph: simple.NewUndirectedGraph(),
		graph:           encoding.Attributes{{Key: "layout", Value: "neato"}},
		node: encoding.Attributes{
			{Key: "shape", Value: "circle"},
			{Key: "style", Value: "filled"},
			{Key: "fontcolor", Value: "white"},
		},
	}

	nodes := make([]dotNode, n.Nodes())
	for u := range nodes {
		attrs := []encoding.Attribute{{Key: "fillcolor",
			Value: nodeColour(n, u)}}
		if u == n.Target() {
			attrs = append(attrs, encoding.Attribute{Key: "shape",
				Value: "doublecircle"})
		}
		if onRoute[u] {
			attrs = append(attrs, encoding.Attribute{Key: "penwidth",
				Value: "3"})
		}
		nodes[u] = dotNode{id: int64(u), attrs: attrs}
		g.AddNode(nodes[u])
	}

	for _, e := range n.Edges() {
		var attrs []encoding.Attribute
		if routeEdges[e] {
			attrs = []encoding.Attribute{
				{Key: "color", Value: RouteColour},
				{Key: "penwidth", Value: "3"},
			}
		}
		g.SetEdge(dotEdge{f: nodes[e[0]], t: nodes[e[1]], attrs: attrs})
	}

	b, err := dot.Marshal(g, "network", "", "\t")
	if err != nil {
		return nil, fmt.Errorf("dot: %w", err)
	}
	return b, nil
}

// nodeColour returns the fill colour of node u
func nodeColour(n *network.Network, u int) string {
	switch {
	case u == n.Target():
		return TargetColour
	case n.Risk(u) >= network.HighRisk:
		return HighRiskColour
	default:
		return BaselineColour
	}
}

// routeOf returns the nodes visited along path and the edges it
// traverses, keyed as (low, high) pairs
func routeOf(n *network.Network, path []env.State) (map[int]bool,
	map[[2]int]bool) {
	space := network.NewSpace(n.Nodes())

	nodes := make(map[int]bool)
	edges := make(map[[2]int]bool)
	for i, s := range path {
		if !space.Contains(s) {
			continue
		}
		u := space.Node(s)
		nodes[u] = true

		if i == 0 || !space.Contains(path[i-1]) {
			continue
		}
		prev := space.Node(path[i-1])
		if prev != u && n.HasEdge(prev, u) {
			edges[[2]int{min(prev, u), max(prev, u)}] = true
		}
	}
	return nodes, edges
}

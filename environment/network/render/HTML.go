package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/environment/network"
	"github.com/samuelfneumann/netql/utils/floatutils"
)

// Sizes of drawn nodes, which grow with node degree
const (
	minSymbolSize = 12.0
	maxSymbolSize = 40.0
)

// Curve is a learning curve: Points[i] summarises updates
// [i*Window, (i+1)*Window)
type Curve struct {
	Name   string
	Window int
	Points []float64
}

// Topology returns a force layout chart of the network n with path
// highlighted
func Topology(n *network.Network, path []env.State) *charts.Graph {
	onRoute, routeEdges := routeOf(n, path)

	nodes := make([]opts.GraphNode, n.Nodes())
	for u := range nodes {
		size := floatutils.Clip(minSymbolSize+4*float64(n.Degree(u)),
			minSymbolSize, maxSymbolSize)

		style := &opts.ItemStyle{Color: nodeColour(n, u)}
		if onRoute[u] {
			style.BorderColor = RouteColour
			style.BorderWidth = 3
		}

		nodes[u] = opts.GraphNode{
			Name:       strconv.Itoa(u),
			Value:      float32(n.Risk(u)),
			SymbolSize: size,
			ItemStyle:  style,
		}
	}

	var links []opts.GraphLink
	for _, e := range n.Edges() {
		link := opts.GraphLink{
			Source: strconv.Itoa(e[0]),
			Target: strconv.Itoa(e[1]),
		}
		if routeEdges[e] {
			link.LineStyle = &opts.LineStyle{Color: RouteColour, Width: 3}
		}
		links = append(links, link)
	}

	g := charts.NewGraph()
	g.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Network",
			Subtitle: fmt.Sprintf("target %d, high risk %v", n.Target(), n.HighRiskNodes()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	g.AddSeries("network", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:    "force",
			Force:     &opts.GraphForce{Repulsion: 300, EdgeLength: 60},
			Roam:      opts.Bool(true),
			Draggable: opts.Bool(true),
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return g
}

// Learning returns a line chart of the argument learning curves
func Learning(curves ...Curve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Learning"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	var longest int
	for _, c := range curves {
		if len(c.Points)*c.Window > longest {
			longest = len(c.Points) * c.Window
		}
	}

	var x []string
	window := 1
	if len(curves) > 0 && curves[0].Window > 0 {
		window = curves[0].Window
	}
	for i := window; i <= longest; i += window {
		x = append(x, strconv.Itoa(i))
	}
	line.SetXAxis(x)

	for _, c := range curves {
		items := make([]opts.LineData, 0, len(c.Points))
		for _, p := range c.Points {
			items = append(items, opts.LineData{Value: p})
		}
		line.AddSeries(c.Name, items)
	}
	return line
}

// HTML writes a page holding the topology chart of n with path
// highlighted, followed by a chart of the learning curves if any are
// given
func HTML(w io.Writer, n *network.Network, path []env.State,
	curves ...Curve) error {
	page := components.NewPage()
	page.SetPageTitle("netql")
	page.AddCharts(Topology(n, path))
	if len(curves) > 0 {
		page.AddCharts(Learning(curves...))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("html: %w", err)
	}
	return nil
}

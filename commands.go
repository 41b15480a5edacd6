package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/netql/agent/tabular/policy"
	"github.com/samuelfneumann/netql/agent/tabular/qlearning"
	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/environment/network"
	"github.com/samuelfneumann/netql/environment/network/render"
	"github.com/samuelfneumann/netql/experiment"
	"github.com/samuelfneumann/netql/experiment/checkpointer"
	"github.com/samuelfneumann/netql/experiment/metrics"
	"github.com/samuelfneumann/netql/experiment/tracker"
	"github.com/samuelfneumann/netql/experiment/trackers"
	"github.com/samuelfneumann/netql/utils/matutils"
	"github.com/samuelfneumann/netql/utils/progressbar"
)

// outputFlags select the files a command writes
type outputFlags struct {
	checkpoint string
	dot        string
	html       string
	metrics    string
	curve      string
	visits     string
	window     int
	table      bool
	quiet      bool
}

var (
	trainRun runFlags
	trainOut outputFlags
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train on a network and print the learned route",
	Long: `Train a value table on the configured network and roll out the
greedy route from the start node to the infection of the target.

Examples:
  netql train                                  # predefined tree scenario
  netql train --topology random --nodes 30 --attachment 2 --target 12
  netql train -c run.toml --html run.html --checkpoint table.bin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, &trainRun)
		if err != nil {
			return err
		}
		return train(c, trainOut)
	},
}

func init() {
	addRunFlags(trainCmd, &trainRun)

	flags := trainCmd.Flags()
	flags.StringVar(&trainOut.checkpoint, "checkpoint", "",
		"save the trained table to this file")
	flags.StringVar(&trainOut.dot, "dot", "", "write a DOT drawing to this file")
	flags.StringVar(&trainOut.html, "html", "", "write an HTML page to this file")
	flags.StringVar(&trainOut.metrics, "metrics", "",
		"write prometheus metrics to this file")
	flags.StringVar(&trainOut.curve, "curve", "",
		"save the TD error curve to this file")
	flags.StringVar(&trainOut.visits, "visits", "",
		"save the state visitation counts to this file")
	flags.IntVar(&trainOut.window, "window", 0,
		"updates averaged per curve point, 0 for 1% of the iterations")
	flags.BoolVar(&trainOut.table, "table", false,
		"print the normalised value table")
	flags.BoolVarP(&trainOut.quiet, "quiet", "q", false,
		"do not draw a progress bar")
}

// train runs the experiment c and writes the outputs selected by out
func train(c experiment.Config, out outputFlags) error {
	e, err := experiment.New(c)
	if err != nil {
		return err
	}
	fmt.Println(e.Network())

	window := out.window
	if window <= 0 {
		window = max(c.Iterations/100, 1)
	}
	td := trackers.NewTdError(window, out.curve)
	visits := trackers.NewVisits(e.Task().States(), out.visits)

	tracked := []tracker.Tracker{td, visits}
	var bar *progressbar.ManualProgressBar
	if !out.quiet {
		bar = progressbar.NewManualProgressBar(os.Stderr, 40, c.Iterations,
			max(c.Iterations/100, 1))
		tracked = append(tracked, bar)
	}
	e.Register(tracker.Combine(tracked...))

	reg := metrics.NewRegistry()
	e.SetMetrics(reg)
	if out.checkpoint != "" {
		e.SetCheckpointer(checkpointer.NewFile(func() string {
			return out.checkpoint
		}))
	}

	result, runErr := e.Run()
	if bar != nil {
		bar.Close()
	}

	var path []env.State
	space := e.Task().Space()
	if result != nil {
		if out.table {
			fmt.Printf("Q =\n%v\n\n", matutils.Format(result.Table))
		}
		path = result.Route.Path
	}

	var rerr *policy.RolloutError
	switch {
	case errors.As(runErr, &rerr):
		path = rerr.Route.Path
		fmt.Printf("%v %v\n", au.Red("No route:"), formatRoute(e.Network(),
			space, rerr.Route))
	case runErr == nil:
		fmt.Printf("%v %v\n", au.Green("Route:"), formatRoute(e.Network(),
			space, result.Route))
	}

	if err := writeOutputs(out, e.Network(), path, td, visits, reg); err != nil {
		log.WithError(err).Error("could not write outputs")
		if runErr == nil {
			return err
		}
	}
	return runErr
}

// writeOutputs writes every file selected by out
func writeOutputs(out outputFlags, n *network.Network, path []env.State,
	td *trackers.TdError, visits *trackers.Visits,
	reg *metrics.Registry) error {
	var errs []error

	if out.dot != "" {
		errs = append(errs, writeFile(out.dot, func(w io.Writer) error {
			b, err := render.DOT(n, path)
			if err != nil {
				return err
			}
			_, err = w.Write(b)
			return err
		}))
	}
	if out.html != "" {
		var curves []render.Curve
		if td != nil && len(td.Data()) > 0 {
			curves = append(curves, render.Curve{Name: "|TD error|",
				Window: td.Window(), Points: td.Data()})
		}
		errs = append(errs, writeFile(out.html, func(w io.Writer) error {
			return render.HTML(w, n, path, curves...)
		}))
	}
	if out.metrics != "" {
		errs = append(errs, writeFile(out.metrics, reg.WriteText))
	}
	if out.curve != "" {
		errs = append(errs, td.Save())
	}
	if out.visits != "" {
		errs = append(errs, visits.Save())
	}

	return errors.Join(errs...)
}

// formatRoute formats a route with the goal in green and states on
// high risk nodes in red
func formatRoute(n *network.Network, space network.Space,
	r policy.Route) string {
	steps := make([]string, len(r.Path))
	for i, s := range r.Path {
		str := space.Format(s)
		switch {
		case space.IsInfected(s) && space.Node(s) == n.Target():
			steps[i] = au.Bold(au.Green(str)).String()
		case n.Risk(space.Node(s)) >= network.HighRisk:
			steps[i] = au.Red(str).String()
		default:
			steps[i] = au.Cyan(str).String()
		}
	}
	return fmt.Sprintf("%v (score %v)", strings.Join(steps, " -> "),
		au.Bold(r.Score))
}

var (
	sweepRun        runFlags
	sweepAlpha      []float64
	sweepGamma      []float64
	sweepIterations []int
	sweepSeeds      int
	sweepWorkers    int
	sweepCheckpoint string
	sweepMetrics    string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Train every combination of hyperparameters concurrently",
	Long: `Train one value table for every combination of the given learning
rates, discounts and iteration counts, each with several seeds, and
report the best route found.

Example:
  netql sweep --alphas 0.5,0.9 --gammas 0.5,0.7 --iteration-counts 1000,5000 --seeds 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, &sweepRun)
		if err != nil {
			return err
		}

		s := experiment.Sweep{
			Base: c,
			Grid: qlearning.NewConfigList(sweepAlpha, sweepGamma,
				sweepIterations),
			Seeds:   sweepSeeds,
			Workers: sweepWorkers,
			Log:     log.StandardLogger(),
			Metrics: metrics.NewRegistry(),
		}
		if sweepCheckpoint != "" {
			if err := os.MkdirAll(sweepCheckpoint, 0o755); err != nil {
				return err
			}
			s.Checkpointer = checkpointer.NewFile(
				checkpointer.FilenameEnumerator(0, sweepCheckpoint, "table",
					".bin"))
		}

		outcomes, err := s.Run()
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			printOutcome(o)
		}

		if sweepMetrics != "" {
			if err := writeFile(sweepMetrics, s.Metrics.WriteText); err != nil {
				return err
			}
		}

		best, ok := experiment.Best(outcomes)
		if !ok {
			return fmt.Errorf("sweep: %w in %d runs",
				policy.ErrNoConvergentRoute, len(outcomes))
		}
		fmt.Printf("%v alpha=%v gamma=%v iterations=%v seed=%v score=%v\n",
			au.Green("Best:"), best.Config.Alpha, best.Config.Gamma,
			best.Config.Iterations, best.Config.Seed, best.Result.Route.Score)
		return nil
	},
}

func init() {
	addRunFlags(sweepCmd, &sweepRun)

	flags := sweepCmd.Flags()
	flags.Float64SliceVar(&sweepAlpha, "alphas", []float64{0.9},
		"learning rates to sweep")
	flags.Float64SliceVar(&sweepGamma, "gammas", []float64{0.7},
		"discounts to sweep")
	flags.IntSliceVar(&sweepIterations, "iteration-counts", []int{1000},
		"iteration counts to sweep")
	flags.IntVar(&sweepSeeds, "seeds", 1, "runs per combination")
	flags.IntVar(&sweepWorkers, "workers", experiment.DefaultWorkers,
		"concurrent runs")
	flags.StringVar(&sweepCheckpoint, "checkpoint-dir", "",
		"save every trained table into this directory")
	flags.StringVar(&sweepMetrics, "metrics", "",
		"write prometheus metrics to this file")
}

// printOutcome prints one line per sweep run
func printOutcome(o experiment.Outcome) {
	c := o.Config
	prefix := fmt.Sprintf("alpha=%-5v gamma=%-5v iterations=%-7v seed=%-4v",
		c.Alpha, c.Gamma, c.Iterations, c.Seed)

	if o.Converged() {
		fmt.Printf("%v %v %v\n", prefix, au.Green("ok"),
			o.Result.Route.Score)
		return
	}
	fmt.Printf("%v %v %v\n", prefix, au.Red("failed"), o.Err)
}

var (
	rolloutRun        runFlags
	rolloutCheckpoint string
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Roll out the greedy route of a saved value table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, &rolloutRun)
		if err != nil {
			return err
		}

		n, task, err := buildTask(c)
		if err != nil {
			return err
		}

		table, err := checkpointer.LoadFile(rolloutCheckpoint)
		if err != nil {
			return err
		}
		greedy, err := policy.NewGreedy(table, task)
		if err != nil {
			return err
		}
		if c.StepLimit > 0 {
			greedy.SetStepLimit(c.StepLimit)
		}

		route, err := greedy.Rollout(task.Space().Clean(c.Start))
		var rerr *policy.RolloutError
		if errors.As(err, &rerr) {
			fmt.Printf("%v %v\n", au.Red("No route:"),
				formatRoute(n, task.Space(), rerr.Route))
			return err
		} else if err != nil {
			return err
		}

		fmt.Printf("%v %v\n", au.Green("Route:"),
			formatRoute(n, task.Space(), route))
		return nil
	},
}

func init() {
	addRunFlags(rolloutCmd, &rolloutRun)
	rolloutCmd.Flags().StringVar(&rolloutCheckpoint, "checkpoint", "",
		"value table saved by train")
	rolloutCmd.MarkFlagRequired("checkpoint")
}

var (
	renderRun        runFlags
	renderCheckpoint string
	renderDOT        string
	renderHTML       string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the configured network",
	Long: `Draw the configured network as DOT and/or HTML. If a saved value
table is given, the greedy route from the start node is highlighted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderDOT == "" && renderHTML == "" {
			return errors.New("render: one of --dot or --html is required")
		}

		c, err := loadConfig(cmd, &renderRun)
		if err != nil {
			return err
		}
		n, task, err := buildTask(c)
		if err != nil {
			return err
		}

		var path []env.State
		if renderCheckpoint != "" {
			table, err := checkpointer.LoadFile(renderCheckpoint)
			if err != nil {
				return err
			}
			greedy, err := policy.NewGreedy(table, task)
			if err != nil {
				return err
			}

			route, err := greedy.Rollout(task.Space().Clean(c.Start))
			var rerr *policy.RolloutError
			if errors.As(err, &rerr) {
				log.WithError(err).Warn("highlighting partial route")
				route = rerr.Route
			} else if err != nil {
				return err
			}
			path = route.Path
		}

		return writeOutputs(outputFlags{dot: renderDOT, html: renderHTML}, n,
			path, nil, nil, nil)
	},
}

func init() {
	addRunFlags(renderCmd, &renderRun)

	flags := renderCmd.Flags()
	flags.StringVar(&renderCheckpoint, "checkpoint", "",
		"value table whose route to highlight")
	flags.StringVar(&renderDOT, "dot", "", "write a DOT drawing to this file")
	flags.StringVar(&renderHTML, "html", "", "write an HTML page to this file")
}

// buildTask builds the network and infection task of c without
// training
func buildTask(c experiment.Config) (*network.Network, *network.Infect,
	error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	n, err := c.Network()
	if err != nil {
		return nil, nil, err
	}
	task, err := network.NewInfect(n)
	if err != nil {
		return nil, nil, err
	}
	return n, task, nil
}

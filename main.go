// Command netql learns infection routes over network topologies with
// tabular Q-learning.
//
//	netql train --alpha 0.9 --gamma 0.7 --iterations 1000 --start 7
//	netql train --config run.toml --html run.html --checkpoint table.bin
//	netql sweep --config run.yaml --alphas 0.5,0.9 --gammas 0.5,0.7 --seeds 5
//	netql rollout --config run.toml --checkpoint table.bin --start 0
//	netql render --config run.toml --dot net.dot
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/samuelfneumann/netql/environment/network"
	"github.com/samuelfneumann/netql/experiment"
)

var (
	logLevel string
	logFile  string
	noColour bool

	// au colours terminal output
	au aurora.Aurora
)

// runFlags are the flags shared by every command that builds an
// experiment configuration
type runFlags struct {
	config     string
	topology   string
	nodes      int
	attachment int
	riskRatio  float64
	highRisk   []int
	target     int
	start      int
	seed       uint64
	stepLimit  int
	alpha      float64
	gamma      float64
	iterations int
}

var rootCmd = &cobra.Command{
	Use:   "netql",
	Short: "Learn infection routes over network topologies",
	Long: `netql trains a tabular Q-learning agent to find the lowest penalty
route from a start node to the infection of a target node, avoiding
high risk and leaf nodes along the way.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		au = aurora.NewAurora(!noColour)
		return setupLogger(logLevel, logFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&noColour, "no-colour", false,
		"disable coloured output")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(rolloutCmd)
	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger configures the standard logger
func setupLogger(level, file string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if file != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	return nil
}

// addRunFlags registers the experiment configuration flags on cmd. The
// defaults describe the predefined tree scenario.
func addRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "",
		"TOML, YAML or JSON experiment configuration; flags override it")
	flags.StringVar(&f.topology, "topology", string(experiment.Tree),
		"network topology: tree|random|custom")
	flags.IntVar(&f.nodes, "nodes", network.TreeNodes, "number of nodes")
	flags.IntVar(&f.attachment, "attachment", 1,
		"edges added per node of a random topology")
	flags.Float64Var(&f.riskRatio, "risk-ratio", network.DefaultRiskRatio,
		"fraction of high risk nodes of a random topology")
	flags.IntSliceVar(&f.highRisk, "high-risk", nil,
		"high risk nodes, overriding the topology")
	flags.IntVar(&f.target, "target", network.TreeTarget, "node to infect")
	flags.IntVar(&f.start, "start", 7, "node to start the route from")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed")
	flags.IntVar(&f.stepLimit, "step-limit", 0,
		"maximum route length, 0 for twice the number of nodes")
	flags.Float64Var(&f.alpha, "alpha", 0.9, "learning rate in (0, 1]")
	flags.Float64Var(&f.gamma, "gamma", 0.7, "discount in [0, 1]")
	flags.IntVar(&f.iterations, "iterations", 1000, "training updates")
}

// loadConfig builds the experiment configuration of cmd. Without a
// configuration file every flag applies; with one, only the flags set
// on the command line override it.
func loadConfig(cmd *cobra.Command, f *runFlags) (experiment.Config, error) {
	var c experiment.Config
	set := func(name string) bool { return true }

	if f.config != "" {
		loaded, err := experiment.Load(f.config)
		if err != nil {
			return c, err
		}
		c = loaded
		set = cmd.Flags().Changed
	}

	if set("topology") {
		c.Topology = experiment.Topology(f.topology)
	}
	if set("nodes") {
		c.Nodes = f.nodes
	}
	if set("attachment") {
		c.Attachment = f.attachment
	}
	if set("risk-ratio") {
		ratio := f.riskRatio
		c.RiskRatio = &ratio
	}
	if cmd.Flags().Changed("high-risk") {
		c.HighRisk = append([]int{}, f.highRisk...)
	}
	if set("target") {
		c.Target = f.target
	}
	if set("start") {
		c.Start = f.start
	}
	if set("seed") {
		c.Seed = f.seed
	}
	if set("step-limit") {
		c.StepLimit = f.stepLimit
	}
	if set("alpha") {
		c.Alpha = f.alpha
	}
	if set("gamma") {
		c.Gamma = f.gamma
	}
	if set("iterations") {
		c.Iterations = f.iterations
	}

	return c, nil
}

// writeFile writes data produced by write into the file name
func writeFile(name string, write func(w io.Writer) error) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

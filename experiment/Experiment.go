// Package experiment implements functionality for running an experiment:
// building the network, training a learner on it and rolling out the
// greedy route from the configured start node.
package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/netql/agent/tabular/policy"
	"github.com/samuelfneumann/netql/agent/tabular/qlearning"
	"github.com/samuelfneumann/netql/environment/network"
	"github.com/samuelfneumann/netql/experiment/checkpointer"
	"github.com/samuelfneumann/netql/experiment/metrics"
	"github.com/samuelfneumann/netql/experiment/tracker"
)

// ErrDisconnectedTarget is returned when no route to the target can
// exist: the target has no incident edges, or the start node lies in a
// different component than the target
var ErrDisconnectedTarget = errors.New("target is disconnected")

// Result is the outcome of a single run
type Result struct {
	ID      uuid.UUID
	Config  Config
	Table   *mat.Dense
	Route   policy.Route
	Elapsed time.Duration
}

// Experiment trains a learner on a network and rolls out the greedy
// route it learned. An Experiment is not safe for concurrent use, but
// several Experiments may share a network.
type Experiment struct {
	id      uuid.UUID
	config  Config
	network *network.Network
	task    *network.Infect
	learner *qlearning.QLearning

	metrics *metrics.Registry
	check   checkpointer.Checkpointer
	log     logrus.FieldLogger
	last    *Result
}

// New creates a new Experiment from a Config, building its network
func New(c Config) (*Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	n, err := c.Network()
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return newExperiment(c, n)
}

// NewOn creates a new Experiment from a Config on an existing network.
// The network must not be modified while the Experiment is in use. The
// topology fields of c are ignored; its target must match the target
// of n.
func NewOn(c Config, n *network.Network) (*Experiment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOn: %w", err)
	}
	if n.Target() != c.Target {
		return nil, fmt.Errorf("newOn: %w: network target %d differs from "+
			"configured target %d", ErrInvalidConfig, n.Target(), c.Target)
	}
	if c.Start >= n.Nodes() {
		return nil, fmt.Errorf("newOn: %w: start %d not in [0, %d)",
			ErrInvalidConfig, c.Start, n.Nodes())
	}

	return newExperiment(c, n)
}

func newExperiment(c Config, n *network.Network) (*Experiment, error) {
	if n.Nodes() > 1 && n.Degree(n.Target()) == 0 {
		return nil, fmt.Errorf("new: %w: node %d has no incident edges",
			ErrDisconnectedTarget, n.Target())
	}
	if !n.Connected(c.Start, n.Target()) {
		return nil, fmt.Errorf("new: %w: start %d cannot reach target %d",
			ErrDisconnectedTarget, c.Start, n.Target())
	}

	task, err := network.NewInfect(n)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	learner, err := qlearning.New(task, c.Config, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	e := &Experiment{
		id:      uuid.New(),
		config:  c,
		network: n,
		task:    task,
		learner: learner,
	}
	e.SetLogger(logrus.StandardLogger())

	return e, nil
}

// ID returns the identifier of the Experiment
func (e *Experiment) ID() uuid.UUID {
	return e.id
}

// Network returns the network the Experiment runs on
func (e *Experiment) Network() *network.Network {
	return e.network
}

// Task returns the infection task the learner is trained on
func (e *Experiment) Task() *network.Infect {
	return e.task
}

// SetLogger sets the logger of the Experiment and its learner
func (e *Experiment) SetLogger(l logrus.FieldLogger) {
	e.log = l.WithField("run", e.id.String())
	e.learner.SetLogger(e.log)
}

// SetMetrics sets the metrics registry the Experiment reports to. The
// registry also observes every training update.
func (e *Experiment) SetMetrics(m *metrics.Registry) {
	e.metrics = m
	e.learner.Register(m)
}

// SetCheckpointer sets the Checkpointer that receives the trained table
func (e *Experiment) SetCheckpointer(c checkpointer.Checkpointer) {
	e.check = c
}

// Register adds a Tracker that observes every training update
func (e *Experiment) Register(t tracker.Tracker) {
	e.learner.Register(t)
}

// Last returns the Result of the last call to Run that trained
// successfully, or nil
func (e *Experiment) Last() *Result {
	return e.last
}

// Run trains the learner and rolls out the greedy route from the start
// node. If training succeeds but the rollout fails, the returned
// Result holds the trained table and an empty route, and the error is a
// *policy.RolloutError, additionally wrapping ErrDisconnectedTarget if
// the start cannot reach the target.
func (e *Experiment) Run() (*Result, error) {
	start := time.Now()

	table, err := e.learner.Train()
	if e.metrics != nil {
		e.metrics.ObserveTraining(time.Since(start))
	}
	if err != nil {
		e.observeFailure(metrics.Degenerate)
		return nil, fmt.Errorf("run: %w", err)
	}

	if e.check != nil {
		if err := e.check.Checkpoint(table); err != nil {
			e.log.WithError(err).Warn("could not checkpoint table")
		}
	}

	result := &Result{ID: e.id, Config: e.config, Table: table}
	e.last = result

	greedy, err := policy.NewGreedy(table, e.task)
	if err != nil {
		e.observeFailure(metrics.Failed)
		return result, fmt.Errorf("run: %w", err)
	}
	if e.config.StepLimit > 0 {
		greedy.SetStepLimit(e.config.StepLimit)
	}

	route, err := greedy.Rollout(e.task.Space().Clean(e.config.Start))
	result.Elapsed = time.Since(start)
	if err != nil {
		err = e.classify(err)
		e.log.WithError(err).Warn("rollout failed")
		return result, fmt.Errorf("run: %w", err)
	}
	result.Route = route

	if e.metrics != nil {
		e.metrics.ObserveRoute(len(route.Path), route.Score)
	}
	e.log.WithFields(logrus.Fields{
		"steps":   route.Len(),
		"score":   route.Score,
		"elapsed": result.Elapsed,
	}).Info("route found")

	return result, nil
}

// classify attributes a failed rollout to a disconnected target when
// the start cannot reach it
func (e *Experiment) classify(err error) error {
	if !e.network.Connected(e.config.Start, e.network.Target()) {
		e.observeFailure(metrics.Disconnected)
		return fmt.Errorf("%w: start %d cannot reach target %d: %w",
			ErrDisconnectedTarget, e.config.Start, e.network.Target(), err)
	}

	e.observeFailure(metrics.NoRoute)
	return err
}

func (e *Experiment) observeFailure(outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveFailure(outcome)
	}
}

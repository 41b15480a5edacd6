// Package qlearning implements tabular Q-Learning.
//
// The learner samples a state uniformly from the whole state space,
// samples one of its legal actions uniformly, and applies the temporal
// difference correction
//
//	Q[s, a] += α·R(s, a) + γ·max_b Q[a, b] - Q[s, a]
//
// for a fixed number of iterations. The table is then normalised by its
// largest entry so that the best estimate is exactly 1.
package qlearning

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/experiment/tracker"
	ts "github.com/samuelfneumann/netql/timestep"
	"github.com/samuelfneumann/netql/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidConfig is returned when hyperparameters are out of
	// range. Training never starts with an invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDegenerateTable is returned when the trained table cannot be
	// normalised because its largest entry is not positive or some entry
	// is not finite
	ErrDegenerateTable = errors.New("degenerate value table")
)

// QLearning implements the tabular Q-Learning algorithm. A QLearning
// value is not safe for concurrent use; each training run owns its
// table exclusively.
type QLearning struct {
	task    env.Task
	config  Config
	starter env.Starter
	rng     *rand.Rand

	table    *mat.Dense
	trackers []tracker.Tracker
	log      logrus.FieldLogger
}

// New creates a new QLearning learner for task t, sampling with a
// source seeded by seed
func New(t env.Task, c Config, seed uint64) (*QLearning, error) {
	return NewWithSource(t, c, rand.NewSource(seed))
}

// NewWithSource creates a new QLearning learner for task t drawing
// all randomness from source
func NewWithSource(t env.Task, c Config, source rand.Source) (*QLearning,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if t.States() <= 0 {
		return nil, fmt.Errorf("new: %w: empty state space", ErrInvalidConfig)
	}

	return &QLearning{
		task:    t,
		config:  c,
		starter: env.NewCategoricalStarter(t.States(), source),
		rng:     rand.New(source),
		log:     logrus.StandardLogger(),
	}, nil
}

// SetLogger sets the logger training progress is reported to
func (q *QLearning) SetLogger(l logrus.FieldLogger) {
	q.log = l
}

// Register registers a Tracker that observes every update made during
// training
func (q *QLearning) Register(t tracker.Tracker) {
	q.trackers = append(q.trackers, t)
}

// Config returns the hyperparameters of the learner
func (q *QLearning) Config() Config {
	return q.config
}

// Table returns the normalised table of the last successful call to
// Train, or nil if training has not succeeded yet
func (q *QLearning) Table() *mat.Dense {
	return q.table
}

// Train fills a fresh value table and returns it normalised. Calling
// Train again continues the random stream and so produces a different
// table. If training fails, the table of the previous successful call
// is kept.
func (q *QLearning) Train() (*mat.Dense, error) {
	states := q.task.States()
	table := mat.NewDense(states, states, nil)

	log := q.log.WithFields(logrus.Fields{
		"alpha":      q.config.Alpha,
		"gamma":      q.config.Gamma,
		"iterations": q.config.Iterations,
		"states":     states,
	})
	log.Debug("training started")
	start := time.Now()

	for i := 0; i < q.config.Iterations; i++ {
		actual := q.starter.Start()
		actions := q.task.Actions(actual)
		next := actions[q.rng.Intn(len(actions))]

		reward, td := q.step(table, actual, next)

		if len(q.trackers) > 0 {
			t := ts.New(i, actual, next, reward, td)
			for _, tr := range q.trackers {
				tr.Track(t)
			}
		}
	}

	scale, err := normalise(table)
	if err != nil {
		log.WithError(err).Warn("training failed")
		return nil, fmt.Errorf("train: %w", err)
	}

	log.WithFields(logrus.Fields{
		"scale":   scale,
		"elapsed": time.Since(start),
	}).Debug("training finished")

	q.table = table
	return table, nil
}

// step applies the temporal difference correction to the entry of
// (actual, next) and returns the reward and the correction
func (q *QLearning) step(table *mat.Dense, actual, next env.State) (float64,
	float64) {
	reward := q.task.Reward(actual, next)
	best := matutils.MaxRow(table, int(next))
	current := table.At(int(actual), int(next))

	td := q.config.Alpha*reward + q.config.Gamma*best - current
	table.Set(int(actual), int(next), current+td)

	return reward, td
}

// normalise divides the table by its largest entry and returns that
// entry. Entries equal to the largest become exactly 1.
func normalise(table *mat.Dense) (float64, error) {
	if !matutils.Finite(table) {
		return 0, fmt.Errorf("%w: non-finite entries", ErrDegenerateTable)
	}

	scale := mat.Max(table)
	if scale <= 0 {
		return scale, fmt.Errorf("%w: largest entry %v is not positive",
			ErrDegenerateTable, scale)
	}

	table.Apply(func(_, _ int, v float64) float64 {
		return v / scale
	}, table)

	return scale, nil
}

package experiment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/netql/agent/tabular/qlearning"
	"github.com/samuelfneumann/netql/experiment/checkpointer"
	"github.com/samuelfneumann/netql/experiment/metrics"
)

// DefaultWorkers is the size of the worker pool of a Sweep when none
// is given
const DefaultWorkers int = 4

// Sweep runs one Experiment for every combination of hyperparameters
// in Grid and every seed, sharing the network built from Base. Run i
// of a grid entry is seeded with Base.Seed + i.
type Sweep struct {
	Base    Config
	Grid    qlearning.ConfigList
	Seeds   int
	Workers int

	Log          logrus.FieldLogger
	Metrics      *metrics.Registry
	Checkpointer checkpointer.Checkpointer
}

// Outcome is the outcome of one run of a Sweep. Result is nil if the
// run failed before training finished.
type Outcome struct {
	Index  int // index into the grid
	Run    int // seed offset
	Config Config
	Result *Result
	Err    error
}

// Converged returns whether the run found a route to the goal
func (o Outcome) Converged() bool {
	return o.Err == nil && o.Result != nil
}

// Len returns the number of runs of the Sweep
func (s Sweep) Len() int {
	return s.Grid.Len() * s.seeds()
}

// At returns the Config of run i. Grid entries vary slowest.
func (s Sweep) At(i int) Config {
	idx, run := i/s.seeds(), i%s.seeds()

	c := s.Base
	c.Config = s.Grid.ConfigAt(idx)
	c.Seed = s.Base.Seed + uint64(run)
	return c
}

// Run runs every combination concurrently and returns their outcomes in
// order. Failed runs are reported in their Outcome; the returned error
// is only non-nil if the Sweep itself could not run.
func (s Sweep) Run() ([]Outcome, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("run: %w: empty sweep", ErrInvalidConfig)
	}
	if err := s.Base.Validate(); err != nil && !errors.Is(err,
		qlearning.ErrInvalidConfig) {
		return nil, fmt.Errorf("run: %w", err)
	}

	n, err := s.Base.Network()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	outcomes := make([]Outcome, s.Len())
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(s.workers(), func(arg any) {
		defer wg.Done()
		i := arg.(int)

		c := s.At(i)
		o := Outcome{Index: i / s.seeds(), Run: i % s.seeds(), Config: c}

		e, err := NewOn(c, n)
		if err != nil {
			o.Err = err
			outcomes[i] = o
			return
		}
		e.SetLogger(log)
		if s.Metrics != nil {
			e.SetMetrics(s.Metrics)
		}
		if s.Checkpointer != nil {
			e.SetCheckpointer(s.Checkpointer)
		}

		o.Result, o.Err = e.Run()
		outcomes[i] = o
	})
	if err != nil {
		return nil, fmt.Errorf("run: could not create worker pool: %w", err)
	}
	defer pool.Release()

	for i := 0; i < s.Len(); i++ {
		wg.Add(1)
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			outcomes[i] = Outcome{Index: i / s.seeds(), Run: i % s.seeds(),
				Config: s.At(i), Err: err}
		}
	}
	wg.Wait()

	return outcomes, nil
}

func (s Sweep) seeds() int {
	if s.Seeds <= 0 {
		return 1
	}
	return s.Seeds
}

func (s Sweep) workers() int {
	if s.Workers <= 0 {
		return DefaultWorkers
	}
	return s.Workers
}

// Best returns the converged outcome with the highest route score.
// Ties go to the earliest outcome. If no run converged, ok is false.
func Best(outcomes []Outcome) (best Outcome, ok bool) {
	for _, o := range outcomes {
		if !o.Converged() {
			continue
		}
		if !ok || o.Result.Route.Score > best.Result.Route.Score {
			best, ok = o, true
		}
	}
	return best, ok
}

package experiment

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/netql/agent/tabular/policy"
	"github.com/samuelfneumann/netql/agent/tabular/qlearning"
	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/experiment/metrics"
)

func TestSweepAt(t *testing.T) {
	s := Sweep{
		Base:  scenario(0, 10),
		Grid:  qlearning.NewConfigList([]float64{0.5, 0.9}, []float64{0.7}, []int{100}),
		Seeds: 3,
	}

	assert.Equal(t, 6, s.Len())

	c := s.At(4)
	assert.Equal(t, 0.9, c.Alpha)
	assert.Equal(t, uint64(11), c.Seed)
	assert.Equal(t, 7, c.Start)

	s.Seeds = 0
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(10), s.At(1).Seed)
}

func TestSweepRun(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := metrics.NewRegistry()

	s := Sweep{
		Base: scenario(0, 1),
		Grid: qlearning.NewConfigList([]float64{0, 0.9}, []float64{0.7},
			[]int{20_000}),
		Seeds:   2,
		Workers: 2,
		Log:     logger,
		Metrics: m,
	}

	outcomes, err := s.Run()
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	for i, o := range outcomes[:2] {
		assert.Equal(t, 0, o.Index)
		assert.Equal(t, i, o.Run)
		assert.False(t, o.Converged())
		assert.ErrorIs(t, o.Err, qlearning.ErrInvalidConfig)
	}

	want := []env.State{7, 3, 1, 2, 5, 14}
	for i, o := range outcomes[2:] {
		assert.Equal(t, 1, o.Index)
		assert.Equal(t, i, o.Run)
		require.True(t, o.Converged(), "run %d: %v", i, o.Err)
		assert.Equal(t, want, o.Result.Route.Path)
		assert.Equal(t, uint64(1+i), o.Config.Seed)
	}

	best, ok := Best(outcomes)
	require.True(t, ok)
	assert.Equal(t, 1, best.Index)
	assert.Equal(t, 0, best.Run)
	assert.Equal(t, 993.0, best.Result.Route.Score)
}

func TestSweepRunEmpty(t *testing.T) {
	_, err := Sweep{Base: scenario(0, 0)}.Run()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s := Sweep{
		Base: scenario(0, 0),
		Grid: qlearning.NewConfigList([]float64{0.9}, []float64{0.7}, []int{10}),
	}
	s.Base.Topology = "ring"
	_, err = s.Run()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBest(t *testing.T) {
	route := func(score float64) *Result {
		return &Result{Route: policy.Route{Path: []env.State{0, 1},
			Score: score}}
	}

	outcomes := []Outcome{
		{Index: 0, Result: route(990)},
		{Index: 1, Result: route(999), Err: policy.ErrNoConvergentRoute},
		{Index: 2, Result: route(995)},
		{Index: 3, Result: route(995)},
		{Index: 4},
	}

	best, ok := Best(outcomes)
	require.True(t, ok)
	assert.Equal(t, 2, best.Index)

	_, ok = Best(outcomes[4:])
	assert.False(t, ok)
	_, ok = Best(nil)
	assert.False(t, ok)
}

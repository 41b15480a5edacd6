package qlearning

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/environment/network"
	ts "github.com/samuelfneumann/netql/timestep"
)

// constantTask gives the same reward for every transition. Each state
// can stay or move to the next state.
type constantTask struct {
	states int
	reward float64
}

func (c *constantTask) States() int                           { return c.states }
func (c *constantTask) Reward(actual, next env.State) float64 { return c.reward }
func (c *constantTask) Goal() env.State                       { return 0 }
func (c *constantTask) AtGoal(s env.State) bool               { return s == 0 }

func (c *constantTask) Actions(actual env.State) []env.State {
	next := env.State((int(actual) + 1) % c.states)
	if next < actual {
		return []env.State{next, actual}
	}
	return []env.State{actual, next}
}

// recorder records every transition it tracks
type recorder struct {
	transitions []ts.Transition
}

func (r *recorder) Track(t ts.Transition) {
	r.transitions = append(r.transitions, t)
}

func treeTask(t testing.TB) *network.Infect {
	task, err := network.NewInfect(network.NewTree())
	require.NoError(t, err)
	return task
}

func TestTrainNormalisesTable(t *testing.T) {
	task := treeTask(t)
	q, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 1000}, 1)
	require.NoError(t, err)
	assert.Nil(t, q.Table())

	table, err := q.Train()
	require.NoError(t, err)

	r, c := table.Dims()
	assert.Equal(t, task.States(), r)
	assert.Equal(t, task.States(), c)
	assert.Equal(t, 1.0, mat.Max(table))
	assert.Same(t, table, q.Table())
}

func TestTrainIsDeterministic(t *testing.T) {
	task := treeTask(t)
	c := Config{Alpha: 0.5, Gamma: 0.8, Iterations: 2000}

	q1, err := New(task, c, 99)
	require.NoError(t, err)
	q2, err := New(task, c, 99)
	require.NoError(t, err)

	t1, err := q1.Train()
	require.NoError(t, err)
	t2, err := q2.Train()
	require.NoError(t, err)

	assert.True(t, mat.Equal(t1, t2))
}

func TestTrainLeavesIllegalEntriesZero(t *testing.T) {
	task := treeTask(t)
	q, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 5000}, 3)
	require.NoError(t, err)

	table, err := q.Train()
	require.NoError(t, err)

	for i := 0; i < task.States(); i++ {
		legal := make(map[env.State]bool)
		for _, a := range task.Actions(env.State(i)) {
			legal[a] = true
		}
		for j := 0; j < task.States(); j++ {
			if !legal[env.State(j)] {
				assert.Zero(t, table.At(i, j), "Q[%d, %d]", i, j)
			}
		}
	}
}

func TestTrainConvergesToFixedPoint(t *testing.T) {
	task := treeTask(t)
	q, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 50_000}, 5)
	require.NoError(t, err)

	table, err := q.Train()
	require.NoError(t, err)

	// Staying at the goal is worth 0.9*999 / (1 - 0.7) before
	// normalisation, and infecting the target from its clean state is
	// worth the same.
	assert.InDelta(t, 1.0, table.At(14, 14), 1e-9)
	assert.InDelta(t, 1.0, table.At(5, 14), 1e-9)

	// Moving from 2 to the leaf 5 is worth 0.9*-3 + 0.7*2997
	assert.InDelta(t, (0.9*-3+0.7*2997)/2997, table.At(2, 5), 1e-9)
}

func TestTrainTracksEveryUpdate(t *testing.T) {
	task := treeTask(t)
	q, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 250}, 11)
	require.NoError(t, err)

	r := &recorder{}
	q.Register(r)
	_, err = q.Train()
	require.NoError(t, err)

	require.Len(t, r.transitions, 250)
	for i, tr := range r.transitions {
		assert.Equal(t, i, tr.Number)
		assert.Contains(t, task.Actions(tr.State), tr.Action)
		assert.Equal(t, task.Reward(tr.State, tr.Action), tr.Reward)
	}
}

func TestTrainDegenerateTable(t *testing.T) {
	tests := []struct {
		name   string
		reward float64
	}{
		{"negative", -1},
		{"zero", 0},
		{"infinite", math.Inf(1)},
		{"nan", math.NaN()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := &constantTask{states: 4, reward: tc.reward}
			q, err := New(task, Config{Alpha: 0.5, Gamma: 0.5,
				Iterations: 100}, 1)
			require.NoError(t, err)

			table, err := q.Train()
			assert.ErrorIs(t, err, ErrDegenerateTable)
			assert.Nil(t, table)
			assert.Nil(t, q.Table())
		})
	}
}

func TestFailedTrainKeepsPreviousTable(t *testing.T) {
	task := &constantTask{states: 4, reward: 1}
	q, err := New(task, Config{Alpha: 0.5, Gamma: 0.5, Iterations: 200}, 2)
	require.NoError(t, err)

	good, err := q.Train()
	require.NoError(t, err)
	snapshot := mat.DenseCopyOf(good)

	task.reward = -1
	_, err = q.Train()
	require.ErrorIs(t, err, ErrDegenerateTable)

	assert.Same(t, good, q.Table())
	assert.True(t, mat.Equal(snapshot, q.Table()))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	task := treeTask(t)

	_, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(&constantTask{}, Config{Alpha: 0.9, Gamma: 0.7,
		Iterations: 10}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTrainLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	q, err := New(&constantTask{states: 2, reward: -1},
		Config{Alpha: 0.5, Gamma: 0.5, Iterations: 10}, 1)
	require.NoError(t, err)
	q.SetLogger(logger)

	_, err = q.Train()
	require.Error(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, 0.5, last.Data["alpha"])
}

func BenchmarkTrainTree(b *testing.B) {
	task := treeTask(b)
	q, err := New(task, Config{Alpha: 0.9, Gamma: 0.7, Iterations: 1000}, 1)
	if err != nil {
		b.Fatal(err)
	}
	q.SetLogger(logrus.New())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.Train(); err != nil {
			b.Fatal(err)
		}
	}
}

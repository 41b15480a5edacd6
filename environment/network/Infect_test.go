package network

import (
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	env "github.com/samuelfneumann/netql/environment"
)

func newTreeTask(t *testing.T) *Infect {
	t.Helper()
	task, err := NewInfect(NewTree())
	require.NoError(t, err)
	return task
}

func TestInfectRewardTable(t *testing.T) {
	task := newTreeTask(t)
	require.Equal(t, 18, task.States())
	require.Equal(t, env.State(14), task.Goal())

	tests := []struct {
		name         string
		actual, next env.State
		want         float64
	}{
		{"infect target", 5, 14, GoalReward},
		{"infect other", 7, 16, InfectPenalty},
		{"stay at goal", 14, 14, GoalReward},
		{"stay clean", 3, 3, IdlePenalty},
		{"stay infected", 12, 12, IdlePenalty},
		{"move to leaf", 2, 5, LeafPenalty},
		{"leaf before high risk", 3, 6, LeafPenalty},
		{"move to baseline", 7, 3, -float64(BaselineRisk)},
		{"move from infected", 12, 1, -float64(BaselineRisk)},
		{"move to infected neighbour", 3, 10, -float64(BaselineRisk)},
		{"teleport", 7, 5, IllegalPenalty},
		{"uninfect", 14, 5, IllegalPenalty},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, task.Reward(test.actual, test.next))
		})
	}
}

func TestInfectActions(t *testing.T) {
	task := newTreeTask(t)

	tests := []struct {
		actual env.State
		want   []env.State
	}{
		{0, []env.State{0, 1, 9}},
		{3, []env.State{1, 3, 6, 7, 8, 12}},
		{5, []env.State{2, 5, 14}},
		{12, []env.State{1, 6, 7, 8, 12}},
		{14, []env.State{2, 14}},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, task.Actions(test.actual),
			"actions of %d", test.actual)
	}
}

func TestInfectRiskOfInnerNode(t *testing.T) {
	n := NewTree()
	require.NoError(t, n.SetHighRisk([]int{2}))
	task, err := NewInfect(n)
	require.NoError(t, err)

	assert.Equal(t, -float64(HighRisk), task.Reward(1, 2))
	assert.Equal(t, -float64(HighRisk), task.Reward(14, 2))
	assert.Equal(t, -float64(BaselineRisk), task.Reward(2, 1))
}

func TestInfectRewardMatrix(t *testing.T) {
	task := newTreeTask(t)
	rewards := task.RewardMatrix()

	r, c := rewards.Dims()
	require.Equal(t, task.States(), r)
	require.Equal(t, task.States(), c)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, task.Reward(env.State(i), env.State(j)),
				rewards.At(i, j), "R[%d, %d]", i, j)
		}
	}
}

func TestNewInfectValidatesModel(t *testing.T) {
	_, err := NewInfect(&Network{target: 0})
	assert.ErrorIs(t, err, ErrEmpty)
}

// TestInfectProperties checks the reward and action rules on random
// networks
func TestInfectProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	// taskOf builds a task on a random network from generated values
	taskOf := func(nodes, attach int, seed uint64, target int) *Infect {
		n, err := NewRandom(nodes, attach, 0.3, target%nodes, seed)
		if err != nil {
			t.Fatalf("newRandom: %v", err)
		}
		task, err := NewInfect(n)
		if err != nil {
			t.Fatalf("newInfect: %v", err)
		}
		return task
	}

	properties.Property("staying rewards the goal only", prop.ForAll(
		func(nodes int, seed uint64, target, s int) bool {
			task := taskOf(nodes, 1, seed, target)
			st := env.State(s % task.States())

			r := task.Reward(st, st)
			if task.AtGoal(st) {
				return r == GoalReward
			}
			return r == IdlePenalty
		},
		gen.IntRange(2, 40), gen.UInt64(), gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("infecting rewards the target only", prop.ForAll(
		func(nodes int, seed uint64, target, u int) bool {
			task := taskOf(nodes, 1, seed, target)
			space := task.Space()
			u %= nodes

			r := task.Reward(space.Clean(u), space.Infected(u))
			if u == task.Model().Target() {
				return r == GoalReward
			}
			return r == InfectPenalty
		},
		gen.IntRange(2, 40), gen.UInt64(), gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("unconnected pairs are illegal", prop.ForAll(
		func(nodes int, seed uint64, a, b int) bool {
			task := taskOf(nodes, 1, seed, 0)
			space := task.Space()
			actual := env.State(a % task.States())
			next := env.State(b % task.States())

			if next == actual {
				return true
			}
			if !space.IsInfected(actual) && next == space.Infected(space.Node(actual)) {
				return true
			}
			if task.Model().HasEdge(space.Node(actual), space.Node(next)) {
				return task.Reward(actual, next) != IllegalPenalty
			}
			return task.Reward(actual, next) == IllegalPenalty
		},
		gen.IntRange(2, 40), gen.UInt64(), gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("actions are sorted, legal and include staying",
		prop.ForAll(
			func(nodes, attach int, seed uint64, s int) bool {
				task := taskOf(nodes, 1+attach%(nodes-1), seed, 0)
				space := task.Space()
				st := env.State(s % task.States())
				actions := task.Actions(st)

				sorted := sort.SliceIsSorted(actions, func(i, j int) bool {
					return actions[i] < actions[j]
				})
				if !sorted {
					return false
				}

				var stays, infects bool
				for _, a := range actions {
					if task.Reward(st, a) == IllegalPenalty {
						return false
					}
					stays = stays || a == st
					infects = infects || (!space.IsInfected(st) &&
						a == space.Infected(space.Node(st)))
				}
				return stays && (space.IsInfected(st) || infects)
			},
			gen.IntRange(2, 40), gen.IntRange(0, 10), gen.UInt64(),
			gen.IntRange(0, 1000),
		))

	properties.TestingRun(t)
}

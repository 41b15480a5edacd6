// Package policy implements policies over tabular value functions
package policy

import (
	"errors"
	"fmt"

	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoConvergentRoute is returned when a greedy walk revisits a
	// state or exceeds its step limit without reaching the goal
	ErrNoConvergentRoute = errors.New("no convergent route")

	// ErrStateRange is returned when a start state is outside the table
	ErrStateRange = errors.New("state out of range")
)

// Route is a walk through the state space together with the rewards
// accumulated along it. Path includes the starting state.
type Route struct {
	Path  []env.State
	Score float64
}

// Len returns the number of steps taken along the route
func (r Route) Len() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// RolloutError reports a walk that failed to reach the goal, along with
// the partial route taken before the failure was detected
type RolloutError struct {
	Route Route
	Err   error
}

func (e *RolloutError) Error() string {
	return fmt.Sprintf("rollout: %v after %d steps (path %v, score %v)",
		e.Err, e.Route.Len(), e.Route.Path, e.Route.Score)
}

func (e *RolloutError) Unwrap() error {
	return e.Err
}

// Greedy is the greedy policy with respect to a value table: in each
// state it selects the action with the largest value, breaking ties in
// favour of the lowest action index.
type Greedy struct {
	table *mat.Dense
	task  env.Task
	limit env.StepLimit
}

// NewGreedy returns a greedy policy over table for task. The table is
// only read, never modified. Rollouts are limited to as many steps as
// there are states.
func NewGreedy(table *mat.Dense, task env.Task) (*Greedy, error) {
	r, c := table.Dims()
	if n := task.States(); r != n || c != n {
		return nil, fmt.Errorf("newGreedy: table is %dx%d but task has %d "+
			"states", r, c, n)
	}

	return &Greedy{
		table: table,
		task:  task,
		limit: env.NewStepLimit(task.States()),
	}, nil
}

// SetStepLimit sets the maximum number of steps of a rollout. A limit
// of zero or less leaves only revisits to stop a walk.
func (g *Greedy) SetStepLimit(steps int) {
	g.limit = env.NewStepLimit(steps)
}

// SelectAction returns the action with the largest value in state s
func (g *Greedy) SelectAction(s env.State) env.State {
	return env.State(matutils.MaxVec(g.table.RowView(int(s))))
}

// Rollout walks greedily from start until the goal is reached,
// accumulating the reward of every step. If a state is visited twice or
// the step limit is reached first, the walk cannot converge and a
// *RolloutError wrapping ErrNoConvergentRoute is returned.
func (g *Greedy) Rollout(start env.State) (Route, error) {
	if start < 0 || int(start) >= g.task.States() {
		return Route{}, fmt.Errorf("rollout: start %d not in [0, %d): %w",
			start, g.task.States(), ErrStateRange)
	}

	route := Route{Path: []env.State{start}}
	visited := map[env.State]bool{start: true}

	current := start
	for !g.task.AtGoal(current) {
		if g.limit.End(route.Len()) {
			return Route{}, &RolloutError{
				Route: route,
				Err: fmt.Errorf("%w: step limit %d reached",
					ErrNoConvergentRoute, g.limit.Steps()),
			}
		}

		next := g.SelectAction(current)
		route.Score += g.task.Reward(current, next)
		route.Path = append(route.Path, next)

		if visited[next] {
			return Route{}, &RolloutError{
				Route: route,
				Err: fmt.Errorf("%w: state %d revisited",
					ErrNoConvergentRoute, next),
			}
		}
		visited[next] = true
		current = next
	}

	return route, nil
}

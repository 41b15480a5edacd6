package metrics

import (
	"bytes"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ts "github.com/samuelfneumann/netql/timestep"
)

// family returns the gathered metric family called name
func family(t *testing.T, r *Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := r.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %q not gathered", name)
	return nil
}

// runs returns the value of the runs counter for outcome
func runs(t *testing.T, r *Registry, outcome string) float64 {
	t.Helper()

	for _, m := range family(t, r, "netql_runs_total").GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "outcome" && l.GetValue() == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestTrack(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Track(ts.New(i, 0, 1, -1, -0.5))
		}(i)
	}
	wg.Wait()

	updates := family(t, r, "netql_updates_total")
	assert.Equal(t, 10.0, updates.GetMetric()[0].GetCounter().GetValue())

	td := family(t, r, "netql_td_error_abs").GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(10), td.GetSampleCount())
	assert.InDelta(t, 5.0, td.GetSampleSum(), 1e-9)
}

func TestObserveOutcomes(t *testing.T) {
	r := NewRegistry()

	r.ObserveRoute(6, 993)
	r.ObserveRoute(4, 995)
	r.ObserveFailure(NoRoute)
	r.ObserveFailure(Disconnected)
	r.ObserveFailure(Disconnected)
	r.ObserveTraining(20 * time.Millisecond)

	assert.Equal(t, 2.0, runs(t, r, Converged))
	assert.Equal(t, 1.0, runs(t, r, NoRoute))
	assert.Equal(t, 2.0, runs(t, r, Disconnected))
	assert.Zero(t, runs(t, r, Degenerate))

	score := family(t, r, "netql_route_score").GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), score.GetSampleCount())
	assert.Equal(t, 1988.0, score.GetSampleSum())

	duration := family(t, r, "netql_train_duration_seconds").GetMetric()[0]
	assert.InDelta(t, 0.02, duration.GetHistogram().GetSampleSum(), 1e-9)
}

func TestWriteText(t *testing.T) {
	r := NewRegistry()
	r.Track(ts.New(0, 3, 7, -1, 2))
	r.ObserveRoute(6, 993)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))

	text := buf.String()
	for _, name := range []string{
		"# TYPE netql_updates_total counter",
		"netql_updates_total 1",
		"# TYPE netql_td_error_abs histogram",
		`netql_runs_total{outcome="converged"} 1`,
		"netql_route_length_count 1",
	} {
		assert.Contains(t, text, name)
	}
}

func TestRegisterer(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Registerer().Register(r.UpdatesTotal))
}

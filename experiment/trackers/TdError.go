// Package trackers implements concrete Trackers of learning progress
package trackers

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/netql/experiment/tracker"
	ts "github.com/samuelfneumann/netql/timestep"
)

// TdError tracks and saves the mean absolute temporal difference
// correction over consecutive windows of updates. A shrinking curve
// indicates that the value table is settling.
//
// Note: a window must be complete for it to be recorded. If training
// ends part way through a window, the partial window is dropped.
type TdError struct {
	window   int
	count    int
	sum      float64
	means    []float64
	filename string
}

// NewTdError creates and returns a new *TdError Tracker averaging over
// windows of window updates and saving to filename
func NewTdError(window int, filename string) *TdError {
	if window <= 0 {
		panic(fmt.Sprintf("newTdError: window must be positive, got %d",
			window))
	}
	return &TdError{window: window, filename: filename}
}

// Track records the magnitude of the correction applied on a
// transition
func (e *TdError) Track(t ts.Transition) {
	e.sum += math.Abs(t.TdError)
	e.count++

	if e.count == e.window {
		e.means = append(e.means, e.sum/float64(e.window))
		e.sum, e.count = 0, 0
	}
}

// Data returns the windowed means recorded so far
func (e *TdError) Data() []float64 {
	return append([]float64(nil), e.means...)
}

// Window returns the number of updates averaged per data point
func (e *TdError) Window() int {
	return e.window
}

// Save saves the windowed means to disk
func (e *TdError) Save() error {
	return tracker.SaveData(e.filename, e.means)
}

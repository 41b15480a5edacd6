// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ts "github.com/samuelfneumann/netql/timestep"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. The bar is redrawn on every Display() call, and
// on every refresh-th call to Increment() or Track().
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	refresh         int
	calls           int
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar writing to out
// that is width characters wide and full after max increments. The bar
// redraws itself every refresh increments; a refresh of zero or less
// leaves redrawing to the caller.
func NewManualProgressBar(out io.Writer, width, max, refresh int) *ManualProgressBar {
	if max <= 0 {
		max = 1
	}
	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		refresh:     refresh,
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}

	p.calls++
	if p.refresh > 0 && p.calls%p.refresh == 0 {
		p.Display()
	}
}

// Track increments the bar once per training update so that the bar
// can be registered with a learner as a tracker.Tracker
func (p *ManualProgressBar) Track(ts.Transition) {
	p.Increment()
}

// Progress returns the fraction of the bar that is filled
func (p *ManualProgressBar) Progress() float64 {
	return p.currentProgress / p.maxProgress
}

// Display draws the progress bar over the current terminal line
func (p *ManualProgressBar) Display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.Progress()*100, "%", time.Since(p.startTime).Truncate(time.Second)))

	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.bar.String())
}

// Close draws the bar a final time and moves to the next line
func (p *ManualProgressBar) Close() {
	p.Display()
	fmt.Fprintln(p.out)
}

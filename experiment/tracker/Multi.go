package tracker

import ts "github.com/samuelfneumann/netql/timestep"

// multi fans a transition out to several Trackers
type multi []Tracker

// Combine returns a Tracker that calls Track on each of the argument
// Trackers in order. Nil Trackers are skipped.
func Combine(trackers ...Tracker) Tracker {
	var m multi
	for _, t := range trackers {
		if t != nil {
			m = append(m, t)
		}
	}
	return m
}

func (m multi) Track(t ts.Transition) {
	for _, tracker := range m {
		tracker.Track(t)
	}
}

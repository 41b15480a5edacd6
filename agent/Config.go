package agent

import (
	env "github.com/samuelfneumann/netql/environment"
)

// Config represents a configuration for creating a learner
type Config interface {
	// CreateLearner creates the learner that the config describes
	CreateLearner(t env.Task, seed uint64) (Learner, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of learner the Config creates
	Type() Type
}

// ConfigList stores a number of Configs. Instead of storing a slice of
// Configs, a ConfigList stores the values of each field and constructs
// Configs from every combination of field values.
type ConfigList interface {
	// Len returns the number of Configs stored by the list
	Len() int

	// At returns the Config at index i
	At(i int) Config

	// Type returns the type of learner the stored Configs create
	Type() Type
}

// Index splits a flat index into one index per field of a ConfigList,
// where lens holds the number of values of each field. The first field
// varies slowest.
func Index(i int, lens ...int) []int {
	indices := make([]int, len(lens))
	for f := len(lens) - 1; f >= 0; f-- {
		indices[f] = i % lens[f]
		i /= lens[f]
	}
	return indices
}

package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/netql/agent"
	env "github.com/samuelfneumann/netql/environment"
	"github.com/samuelfneumann/netql/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
)

// Valid ranges of the hyperparameters. The learning rate excludes its
// minimum.
var (
	AlphaRange = r1.Interval{Min: 0, Max: 1}
	GammaRange = r1.Interval{Min: 0, Max: 1}
)

// Config represents a configuration for the QLearning agent. Every
// field is required; there are no defaults.
type Config struct {
	Alpha      float64 `json:"alpha" toml:"alpha" yaml:"alpha"` // learning rate in (0, 1]
	Gamma      float64 `json:"gamma" toml:"gamma" yaml:"gamma"` // discount in [0, 1]
	Iterations int     `json:"iterations" toml:"iterations" yaml:"iterations"`
}

// CreateLearner creates the learner from the Config
func (c Config) CreateLearner(t env.Task, seed uint64) (agent.Learner, error) {
	return New(t, c, seed)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if !floatutils.InLeftOpen(c.Alpha, AlphaRange) {
		return fmt.Errorf("%w: alpha %v not in (%v, %v]", ErrInvalidConfig,
			c.Alpha, AlphaRange.Min, AlphaRange.Max)
	}
	if !floatutils.In(c.Gamma, GammaRange) {
		return fmt.Errorf("%w: gamma %v not in [%v, %v]", ErrInvalidConfig,
			c.Gamma, GammaRange.Min, GammaRange.Max)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d",
			ErrInvalidConfig, c.Iterations)
	}
	return nil
}

// Type returns the type of the learner constructed by the Config
func (c Config) Type() agent.Type {
	return agent.QLearningTabular
}

// ConfigList implements functionality for storing a number of Config's
// in a simple manner. Instead of storing a slice of Configs, the
// ConfigList stores each field's values and constructs the list by
// every combination of field values.
type ConfigList struct {
	Alpha      []float64 `json:"alpha" toml:"alpha" yaml:"alpha"`
	Gamma      []float64 `json:"gamma" toml:"gamma" yaml:"gamma"`
	Iterations []int     `json:"iterations" toml:"iterations" yaml:"iterations"`
}

// NewConfigList returns a new ConfigList
func NewConfigList(alpha, gamma []float64, iterations []int) ConfigList {
	return ConfigList{Alpha: alpha, Gamma: gamma, Iterations: iterations}
}

// Len returns the number of Configs stored by the list
func (c ConfigList) Len() int {
	return len(c.Alpha) * len(c.Gamma) * len(c.Iterations)
}

// At returns the Config at index i. Alpha varies slowest and
// iterations fastest.
func (c ConfigList) At(i int) agent.Config {
	return c.ConfigAt(i)
}

// ConfigAt returns the concrete Config at index i
func (c ConfigList) ConfigAt(i int) Config {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("configAt: index %d out of range [0, %d)", i,
			c.Len()))
	}

	idx := agent.Index(i, len(c.Alpha), len(c.Gamma), len(c.Iterations))
	return Config{
		Alpha:      c.Alpha[idx[0]],
		Gamma:      c.Gamma[idx[1]],
		Iterations: c.Iterations[idx[2]],
	}
}

// Type returns the type of learner that can be constructed by Config's
// stored by the list
func (c ConfigList) Type() agent.Type {
	return agent.QLearningTabular
}

package qlearning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samuelfneumann/netql/agent"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"scenario", Config{0.9, 0.7, 1000}, true},
		{"unit alpha", Config{1, 0.7, 1}, true},
		{"zero gamma", Config{0.5, 0, 1}, true},
		{"unit gamma", Config{0.5, 1, 1}, true},
		{"zero alpha", Config{0, 0.7, 1}, false},
		{"large alpha", Config{1.1, 0.7, 1}, false},
		{"negative gamma", Config{0.5, -0.1, 1}, false},
		{"large gamma", Config{0.5, 1.5, 1}, false},
		{"zero iterations", Config{0.9, 0.7, 0}, false},
		{"negative iterations", Config{0.9, 0.7, -5}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestConfigCreateLearner(t *testing.T) {
	c := Config{Alpha: 0.9, Gamma: 0.7, Iterations: 10}
	assert.Equal(t, agent.QLearningTabular, c.Type())

	l, err := c.CreateLearner(treeTask(t), 1)
	assert.NoError(t, err)
	assert.IsType(t, &QLearning{}, l)

	_, err = Config{}.CreateLearner(treeTask(t), 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigList(t *testing.T) {
	l := NewConfigList([]float64{0.1, 0.9}, []float64{0.5, 0.7, 0.9},
		[]int{100, 1000})

	assert.Equal(t, 12, l.Len())
	assert.Equal(t, agent.QLearningTabular, l.Type())

	assert.Equal(t, Config{0.1, 0.5, 100}, l.ConfigAt(0))
	assert.Equal(t, Config{0.1, 0.5, 1000}, l.ConfigAt(1))
	assert.Equal(t, Config{0.1, 0.7, 100}, l.ConfigAt(2))
	assert.Equal(t, Config{0.9, 0.9, 1000}, l.ConfigAt(11))
	assert.Equal(t, l.ConfigAt(7), l.At(7))

	assert.Panics(t, func() { l.ConfigAt(12) })
	assert.Panics(t, func() { l.ConfigAt(-1) })

	assert.Zero(t, NewConfigList(nil, []float64{1}, []int{1}).Len())
}

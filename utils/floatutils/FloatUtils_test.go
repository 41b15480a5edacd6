package floatutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(0.5, 1, 2))
	assert.Equal(t, 1.5, Clip(1.5, 1, 2))
	assert.Equal(t, 2.0, Clip(7, 1, 2))
}

func TestIntervals(t *testing.T) {
	unit := r1.Interval{Min: 0, Max: 1}

	assert.True(t, In(0, unit))
	assert.True(t, In(1, unit))
	assert.False(t, In(1.01, unit))

	assert.False(t, InLeftOpen(0, unit))
	assert.True(t, InLeftOpen(1e-9, unit))
	assert.True(t, InLeftOpen(1, unit))
	assert.False(t, InLeftOpen(-1, unit))
}

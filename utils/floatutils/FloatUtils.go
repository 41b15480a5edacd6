// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// In returns whether value lies in the closed interval
func In(value float64, interval r1.Interval) bool {
	return value >= interval.Min && value <= interval.Max
}

// InLeftOpen returns whether value lies in the interval with its
// minimum excluded, (Min, Max]
func InLeftOpen(value float64, interval r1.Interval) bool {
	return value > interval.Min && value <= interval.Max
}

// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, the lowest index is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0

	for i := 1; i < values.Len(); i++ {
		if v := values.AtVec(i); v > max {
			max = v
			idx = i
		}
	}
	return idx
}

// MaxRow returns the largest value in row i of a dense matrix
func MaxRow(m *mat.Dense, i int) float64 {
	return floats.Max(m.RawRowView(i))
}

// Finite returns whether every element of a dense matrix is neither
// NaN nor infinite
func Finite(m *mat.Dense) bool {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		if floats.HasNaN(row) {
			return false
		}
		for _, v := range row {
			if math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

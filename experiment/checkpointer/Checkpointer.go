// Package checkpointer saves snapshots of trained value tables
package checkpointer

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"gonum.org/v1/gonum/mat"
)

// version is the snapshot format written by Save
const version = 1

// ErrFormat is returned when a snapshot cannot be decoded
var ErrFormat = errors.New("unknown snapshot format")

// Checkpointer checkpoints value tables after training
type Checkpointer interface {
	Checkpoint(table *mat.Dense) error
}

// snapshot is the gob encoded form of a value table
type snapshot struct {
	Version    int
	Rows, Cols int
	Data       []float64
}

// Save writes table to w as a snappy compressed gob stream
func Save(w io.Writer, table *mat.Dense) error {
	rows, cols := table.Dims()
	s := snapshot{
		Version: version,
		Rows:    rows,
		Cols:    cols,
		Data:    make([]float64, 0, rows*cols),
	}
	for i := 0; i < rows; i++ {
		s.Data = append(s.Data, table.RawRowView(i)...)
	}

	compressed := snappy.NewBufferedWriter(w)
	if err := gob.NewEncoder(compressed).Encode(s); err != nil {
		compressed.Close()
		return fmt.Errorf("save: could not encode table: %w", err)
	}
	if err := compressed.Close(); err != nil {
		return fmt.Errorf("save: could not flush table: %w", err)
	}
	return nil
}

// Load reads a table written by Save
func Load(r io.Reader) (*mat.Dense, error) {
	var s snapshot
	if err := gob.NewDecoder(snappy.NewReader(r)).Decode(&s); err != nil {
		return nil, fmt.Errorf("load: could not decode table: %w", err)
	}

	if s.Version != version {
		return nil, fmt.Errorf("load: %w: version %d", ErrFormat, s.Version)
	}
	if s.Rows <= 0 || s.Cols <= 0 || len(s.Data) != s.Rows*s.Cols {
		return nil, fmt.Errorf("load: %w: %d values for a %dx%d table",
			ErrFormat, len(s.Data), s.Rows, s.Cols)
	}

	return mat.NewDense(s.Rows, s.Cols, s.Data), nil
}

// SaveFile saves table to the file filename, replacing it if it exists
func SaveFile(filename string, table *mat.Dense) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveFile: could not create checkpoint: %w", err)
	}

	if err := Save(file, table); err != nil {
		file.Close()
		return fmt.Errorf("saveFile: %w", err)
	}
	return file.Close()
}

// LoadFile loads a table saved with SaveFile
func LoadFile(filename string) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadFile: could not open checkpoint: %w", err)
	}
	defer file.Close()

	table, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("loadFile: %w", err)
	}
	return table, nil
}

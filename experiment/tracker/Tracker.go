// Package tracker defines Trackers, which follow the updates of a
// learner and optionally save what they observed
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/netql/timestep"
)

// Tracker keeps track of the transitions a learner updates on
type Tracker interface {
	Track(t ts.Transition)
}

// Saver is a Tracker that can save its data to disk after learning
// has finished
type Saver interface {
	Tracker
	Save() error
}

// SaveData gob-encodes data into filename
func SaveData(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveData: could not create data file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("saveData: could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Saver
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}

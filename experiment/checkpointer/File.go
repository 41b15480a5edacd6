package checkpointer

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// file checkpoints each table into the file named by filename
type file struct {
	mu sync.Mutex

	// filename returns the name of the file to save the next table in.
	//
	// If each table should be saved in a separate file with an
	// incremented number as a suffix (e.g. table1.bin, table2.bin, ...),
	// use FilenameEnumerator. If the name does not matter but tables
	// must not overwrite each other, use FileUUID. For example:
	//
	//	c := NewFile(FileUUID("runs", "table", ".bin"))
	filename func() string
}

// NewFile returns a Checkpointer saving each table to the file named
// by the next call of filename. The returned Checkpointer is safe for
// concurrent use.
func NewFile(filename func() string) Checkpointer {
	return &file{filename: filename}
}

// Checkpoint saves table to the next file
func (f *file) Checkpoint(table *mat.Dense) error {
	f.mu.Lock()
	name := f.filename()
	f.mu.Unlock()

	return SaveFile(name, table)
}

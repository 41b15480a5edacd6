package checkpointer

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// FileUUID returns a function which will append a random UUID to a
// filename in dir
func FileUUID(dir, filename, extension string) func() string {
	return func() string {
		return filepath.Join(dir, fmt.Sprintf("%v-%v%v", filename,
			uuid.New(), extension))
	}
}

package checkpointer

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// nStep forwards every n-th table to another Checkpointer
type nStep struct {
	mu       sync.Mutex
	interval int
	calls    int
	next     Checkpointer
}

// Every returns a Checkpointer that forwards the n-th, 2n-th, ...
// table it receives to c and discards the rest. With n == 1 every
// table is forwarded.
func Every(n int, c Checkpointer) Checkpointer {
	if n <= 0 {
		panic(fmt.Sprintf("every: interval must be positive, got %d", n))
	}
	return &nStep{interval: n, next: c}
}

// Checkpoint checkpoints table if it is the n-th one since the last
// checkpoint
func (n *nStep) Checkpoint(table *mat.Dense) error {
	n.mu.Lock()
	n.calls++
	due := n.calls%n.interval == 0
	n.mu.Unlock()

	if due {
		return n.next.Checkpoint(table)
	}
	return nil
}

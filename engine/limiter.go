package engine

import (
	"fmt"
	"sync"
)

// runLimiter enforces a maximum number of concurrently executing runs.
type runLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// newRunLimiter creates a limiter with a max number of concurrent runs.
// If max == 0, unlimited runs are allowed.
func newRunLimiter(max int) *runLimiter {
	return &runLimiter{max: max}
}

// acquire reserves a run slot and returns an error if the limit is reached.
func (rl *runLimiter) acquire() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.max > 0 && rl.count >= rl.max {
		return fmt.Errorf("exceeded max concurrent runs: %d", rl.max)
	}
	rl.count++

	return nil
}

// release frees a previously acquired run slot.
func (rl *runLimiter) release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.count > 0 {
		rl.count--
	}
}

// active returns the current number of executing runs.
func (rl *runLimiter) active() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.count
}

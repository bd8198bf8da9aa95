package service

import (
	"slices"
	"sync"

	"github.com/dtroode/userindex/internal/model"
)

// sweepTally collects per-instance failures of a fleet sweep. Workers report
// concurrently; failures come back in snapshot order.
type sweepTally struct {
	mu     sync.Mutex
	total  int
	failed []indexedFailure
}

type indexedFailure struct {
	index   int
	failure model.SweepFailure
}

func newSweepTally(total int) *sweepTally {
	return &sweepTally{total: total}
}

func (t *sweepTally) fail(index int, failure model.SweepFailure) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = append(t.failed, indexedFailure{index: index, failure: failure})
}

// result returns the ordered failures and total minus failures.
func (t *sweepTally) result() ([]model.SweepFailure, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	slices.SortFunc(t.failed, func(a, b indexedFailure) int { return a.index - b.index })
	failures := make([]model.SweepFailure, len(t.failed))
	for i, f := range t.failed {
		failures[i] = f.failure
	}
	return failures, uint64(t.total - len(failures))
}

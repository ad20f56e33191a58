package batch

import "sync"

// Progress tracks how many items have settled. It is safe for concurrent use.
type Progress struct {
	// TotalItems is the total number of items to process.
	TotalItems int

	// ProcessedItems is the number of items settled so far, successful or not.
	ProcessedItems int

	// FailedItems is the number of settled items that returned an error.
	FailedItems int

	mu sync.RWMutex
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems int) *Progress {
	return &Progress{TotalItems: totalItems}
}

// AddSettled records one settled item.
func (p *Progress) AddSettled(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems++
	if !ok {
		p.FailedItems++
	}
}

// Snapshot returns a copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalItems:     p.TotalItems,
		ProcessedItems: p.ProcessedItems,
		FailedItems:    p.FailedItems,
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems     int
	ProcessedItems int
	FailedItems    int
}

package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Concurrency limits.
const (
	// DefaultConcurrency is the number of items processed at once when none is configured.
	DefaultConcurrency = 8

	// MinConcurrency is the minimum allowed concurrency.
	MinConcurrency = 1

	// MaxConcurrency is the maximum allowed concurrency.
	MaxConcurrency = 64
)

// Common processing errors.
var (
	ErrInvalidConcurrency = errors.New("concurrency must be between 1 and 64")
	ErrNilCallback        = errors.New("item callback cannot be nil")
)

// ItemFunc processes a single item. index is the item's position in the input slice.
type ItemFunc[T any] func(ctx context.Context, item T, index int) error

// ProgressCallback is an optional callback invoked after each item settles.
type ProgressCallback func(progress *Progress)

// Processor runs an ItemFunc over a slice of items.
type Processor[T any] struct {
	concurrency int
	onProgress  ProgressCallback
}

// NewProcessor creates a processor that runs at most concurrency items at once.
func NewProcessor[T any](concurrency int) (*Processor[T], error) {
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Processor[T]{concurrency: concurrency}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultConcurrency.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{concurrency: DefaultConcurrency}
}

// WithProgressCallback sets a progress callback for the processor.
// The callback may be called from several goroutines at once.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// Concurrency returns the configured concurrency limit.
func (p *Processor[T]) Concurrency() int {
	return p.concurrency
}

// ProcessEach runs fn for every item with bounded concurrency and waits for all of them.
// The returned slice has one entry per item, in input order; nil means success.
// Items not yet started when ctx is cancelled are reported with ctx.Err().
func (p *Processor[T]) ProcessEach(ctx context.Context, items []T, fn ItemFunc[T]) ([]error, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}

	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs, nil
	}

	progress := NewProgress(len(items))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs[i] = ctxErr
			p.settle(progress, ctxErr)
			continue
		}
		i, item := i, item
		g.Go(func() error {
			// Each goroutine owns errs[i]; the error is kept out of the group so
			// siblings keep running.
			err := fn(ctx, item, i)
			errs[i] = err
			p.settle(progress, err)
			return nil
		})
	}

	_ = g.Wait()
	return errs, nil
}

func (p *Processor[T]) settle(progress *Progress, err error) {
	progress.AddSettled(err == nil)
	if p.onProgress != nil {
		p.onProgress(progress)
	}
}

// Package chunk runs work over a slice in fixed-size batches, yielding to the
// scheduler between batches and reporting progress after each one.
package chunk

import (
	"context"
	"runtime"
	"time"
)

// DefaultSize is the batch size used when Options.Size is not positive.
const DefaultSize = 1000

type Options struct {
	Size int
	// Delay is waited between batches. Zero only yields the processor.
	Delay time.Duration
	// OnProgress is called after every batch with the number of items done so far.
	OnProgress func(processed, total int)
}

func (o Options) size() int {
	if o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

// ForEach calls fn for consecutive batches of items. start is the index of
// the batch's first item. It stops at the first error from fn or when ctx
// is done, and it never calls fn for an empty input.
func ForEach[T any](ctx context.Context, items []T, opts Options, fn func(start int, batch []T) error) error {
	size := opts.size()
	total := len(items)

	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+size, total)
		if err := fn(start, items[start:end]); err != nil {
			return err
		}
		if opts.OnProgress != nil {
			opts.OnProgress(end, total)
		}

		if end < total {
			if err := yield(ctx, opts.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// Map transforms every item, batch by batch, and returns the results in order.
func Map[T, R any](ctx context.Context, items []T, fn func(T) R, opts Options) ([]R, error) {
	out := make([]R, 0, len(items))
	err := ForEach(ctx, items, opts, func(_ int, batch []T) error {
		for _, item := range batch {
			out = append(out, fn(item))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func yield(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		runtime.Gosched()
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

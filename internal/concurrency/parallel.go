package concurrency

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParallelOptions configures a fan-out.
type ParallelOptions struct {
	// MaxWorkers caps the number of items processed at once.
	// <=0 means one worker per item.
	MaxWorkers int
}

// PanicError reports an item function that panicked instead of returning.
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("concurrency: item %d panicked: %v", e.Index, e.Value)
}

// ProcessParallel runs itemFunc for every item and waits for all of them to
// settle. A failing item never cancels its siblings. Results are returned in
// input order regardless of completion order; a failed item leaves the zero
// value in its slot. Errors are returned in input order. Items not started
// because ctx was done report ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 || maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for i := range items {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Index: i, Value: r}
					errs[i] = err
				}
			}()

			if ctxErr := ctx.Err(); ctxErr != nil {
				errs[i] = ctxErr
				return nil
			}

			res, itemErr := itemFunc(ctx, i, items[i])
			if itemErr != nil {
				errs[i] = itemErr
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Only panics reach the group; they are already recorded in errs.
	_ = g.Wait()

	var out []error
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return results, out
}

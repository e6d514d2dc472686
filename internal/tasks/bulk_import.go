package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/tickr/internal/models"
	"golang.org/x/time/rate"
)

// BulkImportOpts contains configuration for bulk favourite imports.
type BulkImportOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Adds per second (default: 5)
}

type importJob struct {
	fav models.Favourite
}

// BulkImport adds favourites concurrently with rate limiting and progress tracking.
//
// Rows repeating an earlier symbol are dropped before any work starts, so two
// workers never race to add the same symbol. Different symbols may be added
// concurrently because each add is an atomic array union at the store.
//
// When ctx ends, rows not yet started are counted as skipped and ctx's error is
// returned with the partial result.
func BulkImport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	adder Adder,
	favs []models.Favourite,
	opts BulkImportOpts,
) (*BulkImportResult, error) {
	if err := validateAdder(adder); err != nil {
		return nil, err
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	unique, dupes := dedupe(favs)
	result := &BulkImportResult{
		Total:      len(unique),
		Duplicates: dupes,
		Results:    make([]ImportResult, 0, len(unique)),
	}
	if len(unique) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob)
	results := make(chan ImportResult, len(unique))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go importWorker(ctx, &wg, adder, jobs, results)
	}

	go func() {
		defer close(jobs)
		sendProgress(prog, importStartedUpdate(len(unique)))
		for _, fav := range unique {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- importJob{fav: fav}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Succeeded++
			sendProgress(prog, importCompletedUpdate(completed, len(unique), res.Favourite))
		} else {
			result.Failed++
			sendProgress(prog, importFailedUpdate(completed, len(unique), res.Favourite, res.Error))
		}
	}

	result.Skipped = len(unique) - completed
	if err := ctx.Err(); err != nil && result.Skipped > 0 {
		return result, fmt.Errorf("import interrupted after %d of %d: %w", completed, len(unique), err)
	}
	return result, nil
}

// importWorker is a worker goroutine that adds favourites from the jobs channel.
func importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	adder Adder,
	jobs <-chan importJob,
	results chan<- ImportResult,
) {
	defer wg.Done()

	for job := range jobs {
		res := ImportResult{Favourite: job.fav, Success: adder.Add(ctx, job.fav.Symbol, job.fav.Name)}
		if !res.Success {
			res.Error = ErrNotAdded
		}
		results <- res
	}
}

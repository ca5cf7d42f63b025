package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/feedlift/feedlift/internal/metrics"
	"github.com/feedlift/feedlift/internal/models"
)

// DefaultMaxConcurrent bounds in-flight optimizations when unset.
const DefaultMaxConcurrent = 3

// BatchOptions configure a batch run.
type BatchOptions struct {
	// MaxConcurrent bounds simultaneous in-flight optimizations (default 3).
	MaxConcurrent int
	// OnProgress, when set, is invoked after every finished product with the
	// number of completed items (successes + failures), the total, and the
	// failure count so far. It is called from worker goroutines and must be
	// cheap and thread-safe.
	OnProgress func(completed, total, failed int)
}

// OptimizeBatch fans out one optimization per product through a fixed-width
// worker pool. Each product's failure is recorded as a BatchError without
// affecting its siblings; the batch itself never fails.
//
// Results are collected in completion order, which under concurrency does
// not match submission order. Correlate by ProductID.
func (e *Engine) OptimizeBatch(ctx context.Context, products []models.ProductRecord, opts BatchOptions) *models.BatchRun {
	start := e.now()

	concurrency := opts.MaxConcurrent
	if concurrency <= 0 {
		concurrency = DefaultMaxConcurrent
	}

	slog.Info("starting batch optimization", "products", len(products), "max_concurrent", concurrency)

	var (
		completed atomic.Int32
		mu        sync.Mutex
		results   []*models.OptimizedResult
		errs      []models.BatchError
	)

	workChan := make(chan models.ProductRecord, len(products))
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for product := range workChan {
				result, err := e.OptimizeProduct(ctx, product)

				mu.Lock()
				if err != nil {
					errs = append(errs, models.BatchError{ProductID: product.ProductID, Error: err.Error()})
				} else {
					results = append(results, result)
				}
				failed := len(errs)
				mu.Unlock()

				done := int(completed.Add(1))
				if opts.OnProgress != nil {
					opts.OnProgress(done, len(products), failed)
				}
			}
		}()
	}

	for _, p := range products {
		workChan <- p
	}
	close(workChan)
	wg.Wait()

	duration := e.now().Sub(start)
	e.collector.RecordTiming(metrics.OpBatch, duration)

	run := &models.BatchRun{
		Status:         models.BatchStatusCompleted,
		TotalProducts:  len(products),
		Successful:     len(results),
		Failed:         len(errs),
		Results:        results,
		Errors:         errs,
		ProcessingTime: duration.Seconds(),
		AverageScore:   meanScore(results),
		SubmittedAt:    start,
	}

	slog.Info("batch optimization complete",
		"products", run.TotalProducts,
		"successful", run.Successful,
		"failed", run.Failed,
		"avg_score", run.AverageScore,
		"duration_s", run.ProcessingTime,
	)
	return run
}

// meanScore returns the arithmetic mean score, 0 for an empty result set.
func meanScore(results []*models.OptimizedResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.OptimizationScore
	}
	return sum / float64(len(results))
}

package hubapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/spiderhub-io/hubapi/internal/constants"
)

// BatchOperation represents one operation inside a batch.
type BatchOperation struct {
	// Name identifies the operation in results, for example a spider
	// name or a job key.
	Name string

	// Execute performs the operation.
	Execute func(ctx context.Context) (interface{}, error)
}

// BatchResult holds the outcome of one batch operation.
type BatchResult struct {
	Name   string
	Result interface{}
	Error  error
}

// Succeeded reports whether the operation completed without error.
func (r *BatchResult) Succeeded() bool {
	return r.Error == nil
}

// BatchExecutorConfig tunes batch execution.
type BatchExecutorConfig struct {
	// MaxConcurrency limits the number of operations in flight.
	// Defaults to constants.DefaultConcurrencyLimit.
	MaxConcurrency int

	// StopOnError aborts remaining operations after the first failure.
	StopOnError bool
}

// BatchExecutor runs a set of operations with bounded concurrency.
//
// Scheduling fifty spiders or cancelling a backlog of jobs one call at a
// time is slow; the executor fans the calls out while keeping the request
// rate bounded.
type BatchExecutor struct {
	config *BatchExecutorConfig
	logger Logger
}

// NewBatchExecutor creates a batch executor.
func NewBatchExecutor(config *BatchExecutorConfig, logger Logger) *BatchExecutor {
	if config == nil {
		config = &BatchExecutorConfig{}
	}

	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = constants.DefaultConcurrencyLimit
	}

	if config.MaxConcurrency > constants.MaxWorkers {
		config.MaxConcurrency = constants.MaxWorkers
	}

	return &BatchExecutor{
		config: config,
		logger: logger,
	}
}

// Execute runs all operations and returns results in submission order.
// Individual failures are reported per result; Execute itself returns an
// error only when the context is cancelled, or when StopOnError is set
// and an operation failed.
func (e *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	if len(operations) == 0 {
		return results, nil
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, e.config.MaxConcurrency)

	var wg sync.WaitGroup

	var once sync.Once

	var firstErr error

	for i, op := range operations {
		select {
		case sem <- struct{}{}:
		case <-batchCtx.Done():
			results[i] = BatchResult{Name: op.Name, Error: batchCtx.Err()}
			continue
		}

		wg.Add(1)

		go func(i int, op BatchOperation) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := op.Execute(batchCtx)
			results[i] = BatchResult{Name: op.Name, Result: result, Error: err}

			if err != nil {
				if e.logger != nil {
					e.logger.Warn("batch operation failed", map[string]interface{}{
						"name":  op.Name,
						"error": err.Error(),
					})
				}

				if e.config.StopOnError {
					once.Do(func() {
						firstErr = fmt.Errorf("batch operation %q failed: %w", op.Name, err)
						cancel()
					})
				}
			}
		}(i, op)
	}

	wg.Wait()

	if firstErr != nil {
		return results, firstErr
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}

	return results, nil
}

// SucceededCount returns the number of successful results.
func SucceededCount(results []BatchResult) int {
	count := 0

	for i := range results {
		if results[i].Succeeded() {
			count++
		}
	}

	return count
}

// FailedResults returns only the failed results.
func FailedResults(results []BatchResult) []BatchResult {
	failed := make([]BatchResult, 0)

	for i := range results {
		if !results[i].Succeeded() {
			failed = append(failed, results[i])
		}
	}

	return failed
}

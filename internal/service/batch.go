package service

import (
	"context"
	"log"
	"sync"

	"caseflow/internal/ocr"
)

// BatchResult is the per-document outcome of a batch run. Exactly one
// of Result and Err is set.
type BatchResult struct {
	Locator string
	Result  *ocr.Result
	Err     error
}

// BatchRunner fans the orchestrator out across many documents with a
// bounded worker pool. Individual failures are captured as data; one bad
// document never aborts the rest.
type BatchRunner struct {
	orchestrator *ocr.Orchestrator
	defaults     ocr.Options
	concurrency  int
}

// NewBatchRunner creates a BatchRunner. Concurrency below one is raised
// to one; keep it small, optical recognition is CPU-heavy.
func NewBatchRunner(orchestrator *ocr.Orchestrator, defaults ocr.Options, concurrency int) *BatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchRunner{
		orchestrator: orchestrator,
		defaults:     defaults,
		concurrency:  concurrency,
	}
}

// ProcessMany extracts every locator and returns one entry per input in
// the same order. It never returns an error itself.
func (b *BatchRunner) ProcessMany(ctx context.Context, locators []string) []BatchResult {
	results := make([]BatchResult, len(locators))

	sem := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	log.Printf("batchRunner: processing %d document(s) (concurrency=%d)", len(locators), b.concurrency)

	for i, locator := range locators {
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(i int, locator string) {
			defer wg.Done()
			defer func() { <-sem }() // release

			result, err := b.orchestrator.ExtractText(ctx, locator, b.defaults)
			if err != nil {
				log.Printf("batchRunner: %s failed: %v", locator, err)
				results[i] = BatchResult{Locator: locator, Err: err}
				return
			}
			results[i] = BatchResult{Locator: locator, Result: result}
		}(i, locator)
	}

	wg.Wait()
	return results
}

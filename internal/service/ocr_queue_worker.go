package service

import (
	"context"
	"log"
	"sync"
	"time"

	"caseflow/internal/port"
)

// OcrQueueConfig holds settings for the extraction queue worker.
type OcrQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// OcrQueueWorker polls for queued documents and dispatches them for
// extraction. The database claim is the queue: at-least-once delivery,
// at most one in-flight extraction per document.
type OcrQueueWorker struct {
	docRepo port.DocumentRepository
	svc     ExtractionService
	cfg     OcrQueueConfig
	wg      sync.WaitGroup
}

// NewOcrQueueWorker creates a new OcrQueueWorker.
func NewOcrQueueWorker(docRepo port.DocumentRepository, svc ExtractionService, cfg OcrQueueConfig) *OcrQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &OcrQueueWorker{
		docRepo: docRepo,
		svc:     svc,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *OcrQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("ocrQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("ocrQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("ocrQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("ocrQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range docs {
				doc := docs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight extractions complete even during shutdown.
					extractCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("ocrQueueWorker: dispatching document %s (attempt %d)", doc.ID, doc.OcrAttempts)
					w.svc.ProcessDocument(extractCtx, &doc)
				}()
			}
		}
	}
}

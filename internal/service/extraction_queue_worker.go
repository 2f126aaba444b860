package service

import (
	"context"
	"log"
	"sync"
	"time"

	"loandocs/internal/port"
)

// ExtractionQueueConfig holds settings for the extraction queue worker.
type ExtractionQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// ExtractionQueueWorker polls for uploaded documents and dispatches them
// through the extraction pipeline.
type ExtractionQueueWorker struct {
	docRepo    port.DocumentRepository
	extService ExtractionService
	cfg        ExtractionQueueConfig
	wg         sync.WaitGroup
}

// NewExtractionQueueWorker creates a new ExtractionQueueWorker.
func NewExtractionQueueWorker(docRepo port.DocumentRepository, extService ExtractionService, cfg ExtractionQueueConfig) *ExtractionQueueWorker {
	return &ExtractionQueueWorker{
		docRepo:    docRepo,
		extService: extService,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extractions have finished.
func (w *ExtractionQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractionQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractionQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractionQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			docs, err := w.docRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("extractionQueueWorker: ClaimPending error: %v", err)
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
					extCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("extractionQueueWorker: dispatching document %d", doc.ID)
					w.extService.ProcessClaimed(extCtx, &doc)
				}()
			}
		}
	}
}

// Command worker runs the text extraction queue worker: it polls for
// queued documents, runs the OCR pipeline, and writes the outcome back.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	nativeengine "caseflow/internal/engine/native"
	remoteengine "caseflow/internal/engine/remote"
	renderengine "caseflow/internal/engine/render"
	tesseractengine "caseflow/internal/engine/tesseract"
	"caseflow/internal/notify/noop"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
	"caseflow/internal/repository/postgres"
	"caseflow/internal/service"
	s3storage "caseflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	docRepo := postgres.NewDocumentRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Engines, in escalation order
	renderer := renderengine.NewRenderer(cfg.OCR.Tesseract.RenderDPI)
	engines := map[domain.OcrMethod]port.ExtractionEngine{
		domain.MethodNativeText:   nativeengine.NewEngine(),
		domain.MethodOpticalRecog: tesseractengine.NewEngine(&cfg.OCR.Tesseract, renderer),
	}
	if cfg.OCR.Remote.APIKey != "" {
		engines[domain.MethodRemoteFallback] = remoteengine.NewEngine(&cfg.OCR.Remote)
	}

	fetch := service.NewStorageFetcher(s3Client, cfg.S3.Bucket, cfg.S3.MaxFileSizeMB)
	orchestrator := ocr.NewOrchestrator(engines, fetch)

	defaults := ocr.Options{
		EnableNativeText:         cfg.OCR.NativeEnabled,
		EnableOpticalRecognition: cfg.OCR.OpticalEnabled,
		EnableRemoteFallback:     cfg.OCR.RemoteEnabled && cfg.OCR.Remote.APIKey != "",
		TimeoutMs:                cfg.OCR.TimeoutMs,
		RetryAttempts:            cfg.OCR.RetryAttempts,
	}

	recorder := service.NewMetadataRecorder(docRepo)
	notifier := noop.NewNoopNotifier()
	extractionSvc := service.NewExtractionService(docRepo, orchestrator, recorder, notifier, defaults)

	worker := service.NewOcrQueueWorker(docRepo, extractionSvc, service.OcrQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Extraction worker starting (bucket=%s)", cfg.S3.Bucket)
	worker.Start(ctx)
	return nil
}

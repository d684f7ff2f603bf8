package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

// SentinelFailureText is forwarded downstream when extraction fails
// terminally, so later pipeline stages never receive a missing value.
const SentinelFailureText = "[TEXT EXTRACTION FAILED]"

// ExtractionService is the job-level entry point of the pipeline: it
// resolves a document, runs the orchestrator, records the outcome, and
// signals the downstream stage. Terminal extraction errors are recorded
// and absorbed; they never crash the worker.
type ExtractionService interface {
	// ProcessByID handles one queue payload. At-least-once delivery is
	// assumed: re-running simply overwrites the OCR metadata.
	ProcessByID(ctx context.Context, documentID uuid.UUID) error

	// ProcessDocument runs extraction for an already-claimed document.
	ProcessDocument(ctx context.Context, doc *domain.Document)
}

type extractionService struct {
	docRepo      port.DocumentRepository
	orchestrator *ocr.Orchestrator
	recorder     MetadataRecorder
	notifier     port.TextReadyNotifier
	defaults     ocr.Options
}

// NewExtractionService creates an ExtractionService implementation.
func NewExtractionService(
	docRepo port.DocumentRepository,
	orchestrator *ocr.Orchestrator,
	recorder MetadataRecorder,
	notifier port.TextReadyNotifier,
	defaults ocr.Options,
) ExtractionService {
	return &extractionService{
		docRepo:      docRepo,
		orchestrator: orchestrator,
		recorder:     recorder,
		notifier:     notifier,
		defaults:     defaults,
	}
}

func (s *extractionService) ProcessByID(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("looking up document %s: %w", documentID, err)
	}
	s.ProcessDocument(ctx, doc)
	return nil
}

func (s *extractionService) ProcessDocument(ctx context.Context, doc *domain.Document) {
	opts := s.defaults
	opts.MIMEType = doc.ContentType
	opts.RemoteID = doc.RemoteID

	locator := doc.Locator()
	docType := ocr.ClassifyDocument(locator, opts.MIMEType)
	chain := ocr.BuildMethodChain(docType, opts)

	if len(chain) == 0 {
		log.Printf("extractionService.ProcessDocument: no OCR methods available for %s (type=%s)", doc.ID, docType)
		s.recordFailure(ctx, doc.ID, "", "No OCR methods available", 0)
		return
	}

	if err := s.recorder.MarkPending(ctx, doc.ID, chain[0]); err != nil {
		// The record could not be marked; proceed anyway, the terminal
		// write below re-establishes a consistent state.
		log.Printf("extractionService.ProcessDocument: mark pending failed for %s: %v", doc.ID, err)
	}

	result, err := s.orchestrator.ExtractText(ctx, locator, opts)
	if err != nil {
		method, retries := failureDetail(err)
		log.Printf("extractionService.ProcessDocument: extraction failed for %s: %v", doc.ID, err)
		s.recordFailure(ctx, doc.ID, method, err.Error(), retries)
		return
	}

	if err := s.recorder.RecordSuccess(ctx, doc.ID, result, result.RetryCount); err != nil {
		log.Printf("extractionService.ProcessDocument: recording success failed for %s: %v", doc.ID, err)
		return
	}

	log.Printf("extractionService.ProcessDocument: document %s extracted via %s (confidence=%v, retries=%d)",
		doc.ID, result.Method, deref(result.Confidence), result.RetryCount)

	if s.notifier != nil {
		if err := s.notifier.NotifyTextReady(ctx, doc.ID, result.Text); err != nil {
			log.Printf("extractionService.ProcessDocument: text-ready signal failed for %s: %v", doc.ID, err)
		}
	}
}

// recordFailure persists the terminal failure and still forwards the
// sentinel text downstream so the document is not lost to the pipeline.
func (s *extractionService) recordFailure(ctx context.Context, docID uuid.UUID, method domain.OcrMethod, errMsg string, retries int) {
	if err := s.recorder.RecordFailure(ctx, docID, method, errMsg, retries); err != nil {
		log.Printf("extractionService.recordFailure: recording failure failed for %s: %v", docID, err)
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyTextReady(ctx, docID, SentinelFailureText); err != nil {
			log.Printf("extractionService.recordFailure: text-ready signal failed for %s: %v", docID, err)
		}
	}
}

// failureDetail pulls the last method tried and the retry count out of a
// terminal extraction error.
func failureDetail(err error) (domain.OcrMethod, int) {
	var ocrErr *ocr.Error
	if !errors.As(err, &ocrErr) {
		return "", 0
	}
	retries := 0
	if ocrErr.Context != nil {
		if n, ok := ocrErr.Context["retry_count"].(int); ok {
			retries = n
		}
	}
	return ocrErr.Method, retries
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

// MetadataRecorder translates orchestration outcomes into the document
// record's persisted OCR fields. It is the only component that writes
// them, and every write is a full replacement.
type MetadataRecorder interface {
	MarkPending(ctx context.Context, documentID uuid.UUID, firstMethod domain.OcrMethod) error
	RecordSuccess(ctx context.Context, documentID uuid.UUID, result *ocr.Result, retryCount int) error
	RecordFailure(ctx context.Context, documentID uuid.UUID, lastMethod domain.OcrMethod, errorMessage string, retryCount int) error
}

type metadataRecorder struct {
	docRepo port.DocumentRepository
}

// NewMetadataRecorder creates a repository-backed MetadataRecorder.
func NewMetadataRecorder(docRepo port.DocumentRepository) MetadataRecorder {
	return &metadataRecorder{docRepo: docRepo}
}

// MarkPending runs before orchestration so observers can tell "in
// progress" from "never attempted" by reading the record alone.
func (r *metadataRecorder) MarkPending(ctx context.Context, documentID uuid.UUID, firstMethod domain.OcrMethod) error {
	meta := &domain.DocumentOcrMetadata{
		Status:      domain.OcrStatusProcessing,
		MethodUsed:  string(firstMethod),
		LastAttempt: time.Now().UTC(),
	}
	if err := r.docRepo.UpdateOcrMetadata(ctx, documentID, meta); err != nil {
		log.Printf("metadataRecorder.MarkPending: failed for %s: %v", documentID, err)
		return err
	}
	return nil
}

func (r *metadataRecorder) RecordSuccess(ctx context.Context, documentID uuid.UUID, result *ocr.Result, retryCount int) error {
	meta := &domain.DocumentOcrMetadata{
		Status:           domain.OcrStatusCompleted,
		MethodUsed:       string(result.Method),
		Confidence:       result.Confidence,
		ProcessingTimeMs: result.ProcessingTimeMs,
		RetryCount:       retryCount,
		LastAttempt:      time.Now().UTC(),
		ExtractedText:    result.Text,
	}
	if err := r.docRepo.UpdateOcrMetadata(ctx, documentID, meta); err != nil {
		log.Printf("metadataRecorder.RecordSuccess: failed for %s: %v", documentID, err)
		return err
	}
	return nil
}

func (r *metadataRecorder) RecordFailure(ctx context.Context, documentID uuid.UUID, lastMethod domain.OcrMethod, errorMessage string, retryCount int) error {
	meta := &domain.DocumentOcrMetadata{
		Status:        domain.OcrStatusFailed,
		MethodUsed:    string(lastMethod),
		RetryCount:    retryCount,
		ErrorDetails:  errorMessage,
		LastAttempt:   time.Now().UTC(),
		ExtractedText: SentinelFailureText,
	}
	if err := r.docRepo.UpdateOcrMetadata(ctx, documentID, meta); err != nil {
		log.Printf("metadataRecorder.RecordFailure: failed for %s: %v", documentID, err)
		return err
	}
	return nil
}

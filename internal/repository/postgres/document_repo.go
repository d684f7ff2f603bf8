package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"caseflow/internal/domain"
	"caseflow/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) UpdateOcrMetadata(ctx context.Context, docID uuid.UUID, meta *domain.DocumentOcrMetadata) error {
	query := `UPDATE documents SET
		ocr_status = $1,
		ocr_method_used = $2,
		ocr_confidence = $3,
		ocr_processing_time_ms = $4,
		ocr_retry_count = $5,
		ocr_error_details = $6,
		ocr_last_attempt = $7,
		extracted_text = $8,
		updated_at = $9
	WHERE id = $10`

	res, err := r.db.ExecContext(ctx, query,
		meta.Status, meta.MethodUsed, meta.Confidence,
		meta.ProcessingTimeMs, meta.RetryCount, meta.ErrorDetails,
		meta.LastAttempt, meta.ExtractedText, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateOcrMetadata: %w", err)
	}
	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ClaimQueued flips queued documents to processing and returns them.
// SKIP LOCKED keeps concurrent workers from claiming the same rows, so
// at most one extraction is in flight per document.
func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	query := `UPDATE documents SET
		ocr_status = $1,
		ocr_attempts = ocr_attempts + 1,
		updated_at = $2
	WHERE id IN (
		SELECT id FROM documents
		WHERE ocr_status = $3
		ORDER BY updated_at ASC
		LIMIT $4
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs, query,
		domain.OcrStatusProcessing, time.Now().UTC(), domain.OcrStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) ListByOcrStatus(ctx context.Context, status domain.OcrStatus, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE ocr_status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByOcrStatus count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE ocr_status = $1
		 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByOcrStatus: %w", err)
	}
	return docs, total, nil
}

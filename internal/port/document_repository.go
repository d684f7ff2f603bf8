package port

import (
	"context"

	"github.com/google/uuid"

	"caseflow/internal/domain"
)

// DocumentRepository defines the contract for document persistence. This
// subsystem only reads documents and writes their OCR metadata; the rest
// of the record belongs to the case-management layer.
type DocumentRepository interface {
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)

	// UpdateOcrMetadata replaces every OCR-related column in a single
	// write. No partial merges: a stale field from a previous attempt
	// must never survive into a new attempt's record.
	UpdateOcrMetadata(ctx context.Context, docID uuid.UUID, meta *domain.DocumentOcrMetadata) error

	// ClaimQueued atomically claims up to limit queued documents for
	// processing, so concurrent workers never pick up the same one.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)

	ListByOcrStatus(ctx context.Context, status domain.OcrStatus, offset, limit int) ([]domain.Document, int, error)
}

package port

import (
	"context"

	"github.com/google/uuid"
)

// TextReadyNotifier signals the downstream pipeline stage that a
// document's text is available for vectorization and draft generation.
type TextReadyNotifier interface {
	NotifyTextReady(ctx context.Context, documentID uuid.UUID, text string) error
}

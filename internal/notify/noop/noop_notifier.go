package noop

import (
	"context"
	"log"

	"github.com/google/uuid"

	"caseflow/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op TextReadyNotifier that logs readiness
// signals to stdout. Used until the indexing stage is wired in.
func NewNoopNotifier() port.TextReadyNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifyTextReady(_ context.Context, documentID uuid.UUID, text string) error {
	log.Printf("[NOOP NOTIFY] Text ready for document %s (%d chars)", documentID, len(text))
	return nil
}

package port

import (
	"context"

	"caseflow/internal/domain"
)

// EngineInput is what one extraction attempt receives. FileBytes are
// fetched once per orchestration and shared across attempts; the remote
// engine works from RemoteID (or the locator) and may ignore them.
type EngineInput struct {
	Locator      string
	FileBytes    []byte
	ContentType  string
	DocumentType domain.DocumentType
	RemoteID     string
}

// EngineOutput is the raw product of one successful engine attempt.
type EngineOutput struct {
	Text       string
	PageCount  int
	ImageCount int

	// HasNativeText is reported by the native-text engine: false means
	// the document parsed fine but carries no embedded text layer. That
	// is a soft signal, not an error.
	HasNativeText *bool

	// Confidence is the engine-reported score in [0,1], when the engine
	// produces one.
	Confidence *float64

	// Steps lists the internal stages the engine ran, for observability.
	Steps []string
}

// ExtractionEngine is the single capability every engine implements.
// Failures must be returned as typed extraction errors; raw low-level
// errors never cross this boundary.
type ExtractionEngine interface {
	Method() domain.OcrMethod
	Attempt(ctx context.Context, input EngineInput) (*EngineOutput, error)
}

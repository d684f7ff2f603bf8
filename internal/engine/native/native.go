package native

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

// Engine reads the embedded text layer of a structured PDF. A scanned
// PDF with no text layer is reported via HasNativeText=false, not as an
// error, so the orchestrator can escalate to optical recognition.
type Engine struct{}

// NewEngine creates a native-text extraction engine.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Method() domain.OcrMethod {
	return domain.MethodNativeText
}

func (e *Engine) Attempt(ctx context.Context, input port.EngineInput) (out *port.EngineOutput, err error) {
	if input.DocumentType != domain.DocumentTypePDF {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed,
			map[string]interface{}{"document_type": string(input.DocumentType)},
			fmt.Errorf("native text extraction only applies to pdf documents"))
	}
	if err := ctx.Err(); err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeTimeout, nil, err)
	}

	// The pdf library panics on some malformed files; keep that inside
	// the engine boundary as a typed corrupted-file error.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = ocr.NewFileError(e.Method(), ocr.CodeCorruptedFile, input.Locator,
				fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(input.FileBytes), int64(len(input.FileBytes)))
	if err != nil {
		return nil, ocr.NewFileError(e.Method(), ocr.CodeCorruptedFile, input.Locator, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed, nil, err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, textReader); err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed, nil, err)
	}

	text := sb.String()
	hasText := strings.TrimSpace(text) != ""

	return &port.EngineOutput{
		Text:          text,
		PageCount:     reader.NumPage(),
		HasNativeText: &hasText,
		Steps:         []string{string(domain.MethodNativeText)},
	}, nil
}

package tesseract

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

// Engine runs optical recognition via tesseract. Recognition is CPU and
// memory heavy, so concurrent attempts are bounded by a slot pool sized
// from configuration; one slot means one live tesseract client.
type Engine struct {
	languages []string
	maxPages  int
	renderer  port.PageRenderer
	slots     chan struct{}
}

// NewEngine creates an optical-recognition engine. The renderer bridges
// PDF inputs to raster images before recognition.
func NewEngine(cfg *config.TesseractConfig, renderer port.PageRenderer) *Engine {
	langs := strings.Split(cfg.Languages, "+")
	if cfg.Languages == "" {
		langs = []string{"eng"}
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Engine{
		languages: langs,
		maxPages:  cfg.MaxPages,
		renderer:  renderer,
		slots:     make(chan struct{}, concurrency),
	}
}

func (e *Engine) Method() domain.OcrMethod {
	return domain.MethodOpticalRecog
}

func (e *Engine) Attempt(ctx context.Context, input port.EngineInput) (*port.EngineOutput, error) {
	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeTimeout, nil, ctx.Err())
	}

	var (
		images    [][]byte
		steps     []string
		pageCount int
	)

	if input.DocumentType == domain.DocumentTypePDF {
		rendered, err := e.renderer.RenderPages(ctx, input.FileBytes, e.maxPages)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ocr.NewProcessingError(e.Method(), ocr.CodeTimeout, nil, ctx.Err())
			}
			return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed,
				map[string]interface{}{"stage": "pdf-rendering"}, err)
		}
		images = rendered
		pageCount = len(rendered)
		steps = append(steps, "pdf-rendering")
	} else {
		images = [][]byte{input.FileBytes}
	}
	steps = append(steps, string(domain.MethodOpticalRecog))

	var sb strings.Builder
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, ocr.NewProcessingError(e.Method(), ocr.CodeTimeout, nil, err)
		}
		text, err := e.recognize(img)
		if err != nil {
			return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed,
				map[string]interface{}{"image_index": i}, err)
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	text := sb.String()
	confidence := estimateConfidence(text)

	return &port.EngineOutput{
		Text:       text,
		PageCount:  pageCount,
		ImageCount: len(images),
		Confidence: &confidence,
		Steps:      steps,
	}, nil
}

// recognize runs tesseract on one encoded image. Clients are not safe
// for reuse across images, so each call gets a fresh one.
func (e *Engine) recognize(imageBytes []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", err
	}
	return client.Text()
}

// estimateConfidence scores recognized text on length and character
// distribution. Tesseract's own per-word confidences are only exposed
// through HOCR parsing, which is not worth the cost here.
func estimateConfidence(text string) float64 {
	confidence := 0.5

	if len(text) > 1000 {
		confidence += 0.1
	}
	if len(text) > 5000 {
		confidence += 0.1
	}

	words := strings.Fields(text)
	if len(words) > 100 {
		confidence += 0.1
	}

	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	if len(text) > 0 {
		alphaRatio := float64(alphaCount) / float64(len(text))
		if alphaRatio > 0.5 && alphaRatio < 0.9 {
			confidence += 0.1
		}
	}

	if confidence > 0.85 {
		confidence = 0.85
	}
	return confidence
}

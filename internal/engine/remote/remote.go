package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"caseflow/internal/config"
	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

const defaultEndpoint = "https://ocr.caseflow.app/v1/extract"

// Engine delegates extraction to the hosted OCR capability, keyed by
// the document's remote identifier. It is the last resort of every
// method chain and the only option for unclassifiable documents.
type Engine struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewEngine creates a remote-fallback engine from configuration.
func NewEngine(cfg *config.RemoteOcrConfig) *Engine {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return newEngine(cfg, endpoint)
}

// NewEngineWithEndpoint creates an engine pointing at a custom endpoint (for testing).
func NewEngineWithEndpoint(cfg *config.RemoteOcrConfig, endpoint string) *Engine {
	return newEngine(cfg, endpoint)
}

func newEngine(cfg *config.RemoteOcrConfig, endpoint string) *Engine {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Engine{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Engine) Method() domain.OcrMethod {
	return domain.MethodRemoteFallback
}

type extractRequest struct {
	DocumentID string `json:"document_id"`
	Locator    string `json:"locator,omitempty"`
}

type extractResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	PageCount  int      `json:"page_count,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (e *Engine) Attempt(ctx context.Context, input port.EngineInput) (*port.EngineOutput, error) {
	documentID := input.RemoteID
	if documentID == "" {
		documentID = input.Locator
	}

	bodyBytes, err := json.Marshal(extractRequest{DocumentID: documentID, Locator: input.Locator})
	if err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed, nil, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed, nil, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ocr.NewProcessingError(e.Method(), ocr.CodeTimeout, nil, ctx.Err())
		}
		return nil, ocr.NewNetworkError(e.Method(), ocr.CodeNetworkError, e.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ocr.NewNetworkError(e.Method(), ocr.CodeNetworkError, e.endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, ocr.NewFileError(e.Method(), ocr.CodeFileNotFound, documentID,
			fmt.Errorf("remote service has no document %q", documentID))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, ocr.NewNetworkError(e.Method(), ocr.CodeServiceUnavailable, e.endpoint,
			fmt.Errorf("remote service returned %d: %s", resp.StatusCode, truncate(respBody, 200)))
	default:
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed,
			map[string]interface{}{"status": resp.StatusCode}, fmt.Errorf("remote service returned %d: %s", resp.StatusCode, truncate(respBody, 200)))
	}

	var parsed extractResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed, nil,
			fmt.Errorf("decoding remote response: %w", err))
	}
	if parsed.Error != "" {
		return nil, ocr.NewProcessingError(e.Method(), ocr.CodeProcessingFailed,
			map[string]interface{}{"remote_error": parsed.Error}, fmt.Errorf("remote extraction failed: %s", parsed.Error))
	}

	return &port.EngineOutput{
		Text:       parsed.Text,
		PageCount:  parsed.PageCount,
		Confidence: parsed.Confidence,
		Steps:      []string{string(domain.MethodRemoteFallback)},
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

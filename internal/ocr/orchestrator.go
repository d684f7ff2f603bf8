package ocr

import (
	"context"
	"errors"
	"log"
	"time"

	"caseflow/internal/domain"
	"caseflow/internal/port"
)

// FetchFunc resolves a locator to the document bytes and their content
// type. The orchestrator calls it at most once per extraction.
type FetchFunc func(ctx context.Context, locator string) ([]byte, string, error)

// Result is the unified output of one successful extraction.
type Result struct {
	Text             string
	Method           domain.OcrMethod
	Confidence       *float64
	ProcessingTimeMs int64
	RetryCount       int
	Metadata         *ResultMetadata
}

// ResultMetadata carries observability detail about the orchestration.
type ResultMetadata struct {
	PageCount       int
	ImageCount      int
	Errors          []string
	ProcessingSteps []string
	TotalTimeMs     int64
}

// Orchestrator runs the classify → attempt → validate → retry/fallback
// state machine over a map of method → engine. One ExtractText call owns
// its transient state; concurrent calls for different documents are
// independent.
type Orchestrator struct {
	engines map[domain.OcrMethod]port.ExtractionEngine
	fetch   FetchFunc
}

// NewOrchestrator creates an Orchestrator. Engines absent from the map
// are treated as disabled regardless of options.
func NewOrchestrator(engines map[domain.OcrMethod]port.ExtractionEngine, fetch FetchFunc) *Orchestrator {
	return &Orchestrator{engines: engines, fetch: fetch}
}

// callState is the transient state of a single ExtractText invocation.
type callState struct {
	steps       []string
	errs        []error
	retries     int
	fileBytes   []byte
	contentType string
	fetched     bool
}

// ExtractText converts the document behind locator into text, trying the
// method chain for its classified type with per-attempt timeout, bounded
// retry, and fallback. It returns a typed terminal error when every
// method is exhausted.
func (o *Orchestrator) ExtractText(ctx context.Context, locator string, opts Options) (*Result, error) {
	opts = opts.normalized()
	start := time.Now()

	docType := ClassifyDocument(locator, opts.MIMEType)
	chain := BuildMethodChain(docType, opts)
	if len(chain) == 0 {
		log.Printf("ocr.Orchestrator: no OCR methods available for %s (type=%s)", locator, docType)
		return nil, NewConfigError(CodeInvalidConfig, "No OCR methods available")
	}

	log.Printf("ocr.Orchestrator: extracting %s (type=%s, chain=%v, timeout=%dms, retries=%d)",
		locator, docType, chain, opts.TimeoutMs, opts.RetryAttempts)

	state := &callState{}
	lastMethod := chain[0]

	for _, method := range chain {
		lastMethod = method
		engine, ok := o.engines[method]
		if !ok {
			state.errs = append(state.errs, NewConfigError(CodeMethodDisabled, "no engine registered for "+string(method)))
			continue
		}

		result, abandon := o.runMethod(ctx, engine, method, locator, docType, opts, state)
		if result != nil {
			result.RetryCount = state.retries
			result.Metadata.TotalTimeMs = time.Since(start).Milliseconds()
			result.Metadata.Errors = errorStrings(state.errs)
			log.Printf("ocr.Orchestrator: %s extracted via %s in %dms (retries=%d)",
				locator, result.Method, result.ProcessingTimeMs, result.RetryCount)
			return result, nil
		}
		if abandon {
			break
		}
	}

	agg := NewAllMethodsFailedError(state.errs)
	agg.Method = lastMethod
	agg.Context["retry_count"] = state.retries
	agg.Context["processing_steps"] = state.steps
	log.Printf("ocr.Orchestrator: %s failed after %d attempt error(s): %v", locator, len(state.errs), agg)
	return nil, agg
}

// runMethod exhausts one method's attempt budget. It returns a result on
// success, or (nil, true) when the failure is neither retryable nor
// fallback-eligible and the whole chain must be abandoned.
func (o *Orchestrator) runMethod(
	ctx context.Context,
	engine port.ExtractionEngine,
	method domain.OcrMethod,
	locator string,
	docType domain.DocumentType,
	opts Options,
	state *callState,
) (*Result, bool) {
	maxAttempts := opts.RetryAttempts + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			state.errs = append(state.errs, NewProcessingError(method, CodeTimeout, nil, ctx.Err()))
			return nil, true
		}

		// Local engines need the document bytes; the remote engine
		// delegates by identifier and does not.
		if method != domain.MethodRemoteFallback && !state.fetched {
			data, contentType, err := o.fetch(ctx, locator)
			if err != nil {
				var ocrErr *Error
				switch {
				case errors.As(err, &ocrErr):
					state.errs = append(state.errs, ocrErr)
				case errors.Is(err, domain.ErrFileTooLarge):
					state.errs = append(state.errs, NewFileError(method, CodeFileTooLarge, locator, err))
				default:
					state.errs = append(state.errs, NewFileError(method, CodeFileNotFound, locator, err))
				}
				return nil, true
			}
			state.fileBytes = data
			state.contentType = contentType
			state.fetched = true
		}

		input := port.EngineInput{
			Locator:      locator,
			FileBytes:    state.fileBytes,
			ContentType:  state.contentType,
			DocumentType: docType,
			RemoteID:     opts.RemoteID,
		}

		out, elapsed, err := o.attemptOnce(ctx, engine, method, input, opts)

		if err == nil {
			if len(out.Steps) > 0 {
				state.steps = append(state.steps, out.Steps...)
			} else {
				state.steps = append(state.steps, string(method))
			}

			// A structured document without an embedded text layer is a
			// scanned original, not an anomaly: fall straight through to
			// the next method without consuming a retry.
			if method == domain.MethodNativeText && out.HasNativeText != nil && !*out.HasNativeText {
				log.Printf("ocr.Orchestrator: %s has no native text layer, escalating", locator)
				return nil, false
			}

			result, qualityErr := o.gateQuality(method, out, elapsed, state)
			if qualityErr == nil {
				return result, false
			}
			err = qualityErr
		} else {
			state.steps = append(state.steps, string(method))
		}

		state.errs = append(state.errs, err)
		log.Printf("ocr.Orchestrator: %s attempt %d/%d via %s failed: %v", locator, attempt, maxAttempts, method, err)

		if ShouldRetry(err, attempt, maxAttempts) {
			state.retries++
			if !sleepCtx(ctx, RetryDelay(err, attempt)) {
				state.errs = append(state.errs, NewProcessingError(method, CodeTimeout, nil, ctx.Err()))
				return nil, true
			}
			continue
		}
		if ShouldFallback(err) {
			return nil, false
		}
		return nil, true
	}

	// Retry budget exhausted; move on if the last error allows it.
	return nil, !ShouldFallback(state.errs[len(state.errs)-1])
}

// attemptOnce invokes the engine under the per-attempt timeout and
// guarantees the returned error is a typed extraction error.
func (o *Orchestrator) attemptOnce(
	ctx context.Context,
	engine port.ExtractionEngine,
	method domain.OcrMethod,
	input port.EngineInput,
	opts Options,
) (*port.EngineOutput, time.Duration, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, opts.AttemptTimeout())
	defer cancel()

	started := time.Now()
	out, err := engine.Attempt(attemptCtx, input)
	elapsed := time.Since(started)

	if err != nil {
		var ocrErr *Error
		switch {
		case errors.As(err, &ocrErr):
			// already typed
		case errors.Is(err, context.DeadlineExceeded):
			err = NewProcessingError(method, CodeTimeout,
				map[string]interface{}{"timeout_ms": opts.TimeoutMs}, err)
		default:
			err = NewProcessingError(method, CodeProcessingFailed, nil, err)
		}
		return nil, elapsed, err
	}
	return out, elapsed, nil
}

// gateQuality validates engine output and assembles the final result.
// Rejected output is discarded; only the eventual success or the
// terminal failure ever reaches the metadata recorder.
func (o *Orchestrator) gateQuality(method domain.OcrMethod, out *port.EngineOutput, elapsed time.Duration, state *callState) (*Result, error) {
	assessment := AssessQuality(out.Text, out.Confidence)

	if !assessment.HasValidText || (assessment.ContainsGibberish && out.Confidence == nil) {
		return nil, NewQualityError(method, CodeLowQuality, map[string]interface{}{
			"text_length":        assessment.TextLength,
			"valid_word_ratio":   assessment.ValidWordRatio,
			"contains_gibberish": assessment.ContainsGibberish,
		}, nil)
	}

	var confidence *float64
	if out.Confidence != nil {
		confidence = floatPtr(clamp01(*out.Confidence))
	} else {
		switch method {
		case domain.MethodNativeText:
			confidence = floatPtr(0.9)
		case domain.MethodRemoteFallback:
			confidence = floatPtr(0.8)
		default:
			confidence = floatPtr(assessment.Confidence)
		}
	}

	steps := make([]string, len(state.steps))
	copy(steps, state.steps)

	return &Result{
		Text:             out.Text,
		Method:           method,
		Confidence:       confidence,
		ProcessingTimeMs: elapsed.Milliseconds(),
		Metadata: &ResultMetadata{
			PageCount:       out.PageCount,
			ImageCount:      out.ImageCount,
			ProcessingSteps: steps,
		},
	}, nil
}

// sleepCtx sleeps for d unless ctx is canceled first. Reports whether
// the full delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

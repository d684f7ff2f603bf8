package ocr

import (
	"errors"
	"fmt"
	"time"

	"caseflow/internal/domain"
)

// Code is the closed set of OCR error codes. Retryability is decided
// from the code at construction time and never reinterpreted.
type Code string

const (
	// Configuration errors
	CodeInvalidConfig  Code = "invalid-config"
	CodeMethodDisabled Code = "method-disabled"

	// File errors (never retryable)
	CodeFileNotFound      Code = "file-not-found"
	CodeFileTooLarge      Code = "file-too-large"
	CodeUnsupportedFormat Code = "unsupported-format"
	CodeCorruptedFile     Code = "corrupted-file"

	// Processing errors
	CodeTimeout          Code = "timeout"
	CodeMemoryError      Code = "memory-error"
	CodeProcessingFailed Code = "processing-failed"
	CodeNoTextFound      Code = "no-text-found"

	// Network errors
	CodeNetworkError       Code = "network-error"
	CodeServiceUnavailable Code = "service-unavailable"

	// Quality errors (never retryable with the same method)
	CodeLowQuality        Code = "low-quality"
	CodeGibberishDetected Code = "gibberish-detected"
)

// Error is the typed extraction error every engine failure is wrapped
// into before crossing the engine boundary.
type Error struct {
	Message   string
	Method    domain.OcrMethod
	Code      Code
	Context   map[string]interface{}
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Method, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Method, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a configuration error. Not retryable.
func NewConfigError(code Code, message string) *Error {
	return &Error{
		Message:   message,
		Code:      code,
		Retryable: false,
	}
}

// NewFileError creates a file-level error. Not retryable: the file will
// not change between attempts.
func NewFileError(method domain.OcrMethod, code Code, locator string, cause error) *Error {
	return &Error{
		Message:   fmt.Sprintf("file error for %s", locator),
		Method:    method,
		Code:      code,
		Context:   map[string]interface{}{"locator": locator},
		Cause:     cause,
		Retryable: false,
	}
}

// NewProcessingError creates a processing error. Retryable unless the
// engine positively determined there is no text to extract.
func NewProcessingError(method domain.OcrMethod, code Code, context map[string]interface{}, cause error) *Error {
	return &Error{
		Message:   "processing failed",
		Method:    method,
		Code:      code,
		Context:   context,
		Cause:     cause,
		Retryable: code != CodeNoTextFound,
	}
}

// NewNetworkError creates a network error. Retryable.
func NewNetworkError(method domain.OcrMethod, code Code, target string, cause error) *Error {
	ctx := map[string]interface{}{}
	if target != "" {
		ctx["target"] = target
	}
	return &Error{
		Message:   "network failure",
		Method:    method,
		Code:      code,
		Context:   ctx,
		Cause:     cause,
		Retryable: true,
	}
}

// NewQualityError creates a quality-gate error. Not retryable: the same
// engine on the same input will not produce better output.
func NewQualityError(method domain.OcrMethod, code Code, metrics map[string]interface{}, cause error) *Error {
	return &Error{
		Message:   "extracted text failed quality assessment",
		Method:    method,
		Code:      code,
		Context:   metrics,
		Cause:     cause,
		Retryable: false,
	}
}

// NewAllMethodsFailedError aggregates the per-method failures after the
// entire chain is exhausted. Terminal and not retryable.
func NewAllMethodsFailedError(errs []error) *Error {
	details := make([]string, 0, len(errs))
	for _, err := range errs {
		details = append(details, err.Error())
	}
	return &Error{
		Message:   "All OCR methods failed",
		Code:      CodeProcessingFailed,
		Context:   map[string]interface{}{"errors": details},
		Retryable: false,
	}
}

// fallbackCodes are the codes where switching to the next engine in the
// chain is worthwhile.
var fallbackCodes = map[Code]bool{
	CodeProcessingFailed:   true,
	CodeTimeout:            true,
	CodeLowQuality:         true,
	CodeServiceUnavailable: true,
}

// retryCodes are the codes where re-invoking the same engine can help.
var retryCodes = map[Code]bool{
	CodeTimeout:      true,
	CodeMemoryError:  true,
	CodeNetworkError: true,
}

// ShouldFallback reports whether the orchestrator should advance to the
// next method in the chain after this error.
func ShouldFallback(err error) bool {
	var ocrErr *Error
	if !errors.As(err, &ocrErr) {
		return false
	}
	return fallbackCodes[ocrErr.Code]
}

// ShouldRetry reports whether the same method should be attempted again
// given the attempts already spent.
func ShouldRetry(err error, attemptsSoFar, maxAttempts int) bool {
	if attemptsSoFar >= maxAttempts {
		return false
	}
	var ocrErr *Error
	if !errors.As(err, &ocrErr) {
		return false
	}
	if !ocrErr.Retryable {
		return false
	}
	return retryCodes[ocrErr.Code]
}

// RetryDelay computes the backoff before the next attempt. Different
// failure classes have different recovery economics: network blips get
// aggressive exponential backoff, memory pressure gets a longer linear
// wait, timeouts a short one.
func RetryDelay(err error, attemptsSoFar int) time.Duration {
	var ocrErr *Error
	code := Code("")
	if errors.As(err, &ocrErr) {
		code = ocrErr.Code
	}

	var ms int64
	switch code {
	case CodeNetworkError:
		ms = 1000 * (1 << attemptsSoFar)
		if ms > 30000 {
			ms = 30000
		}
	case CodeMemoryError:
		ms = 3000 * int64(attemptsSoFar)
		if ms > 15000 {
			ms = 15000
		}
	case CodeTimeout:
		ms = 1000 * int64(1+attemptsSoFar)
		if ms > 10000 {
			ms = 10000
		}
	default:
		ms = 1000 * int64(attemptsSoFar)
	}
	return time.Duration(ms) * time.Millisecond
}

package ocr_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("socket closed")
	err := ocr.NewNetworkError(domain.MethodRemoteFallback, ocr.CodeNetworkError, "api.example.com", cause)

	assert.Contains(t, err.Error(), "remote-fallback")
	assert.Contains(t, err.Error(), "network-error")
	assert.Contains(t, err.Error(), "socket closed")
	assert.ErrorIs(t, err, cause)
}

func TestErrorRetryabilityByConstructor(t *testing.T) {
	assert.False(t, ocr.NewConfigError(ocr.CodeInvalidConfig, "bad").Retryable)
	assert.False(t, ocr.NewFileError(domain.MethodNativeText, ocr.CodeCorruptedFile, "a.pdf", nil).Retryable)
	assert.True(t, ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeTimeout, nil, nil).Retryable)
	assert.False(t, ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeNoTextFound, nil, nil).Retryable)
	assert.True(t, ocr.NewNetworkError(domain.MethodRemoteFallback, ocr.CodeNetworkError, "", nil).Retryable)
	assert.False(t, ocr.NewQualityError(domain.MethodOpticalRecog, ocr.CodeLowQuality, nil, nil).Retryable)
}

func TestShouldFallback(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ocr.NewProcessingError(domain.MethodNativeText, ocr.CodeProcessingFailed, nil, nil), true},
		{ocr.NewProcessingError(domain.MethodNativeText, ocr.CodeTimeout, nil, nil), true},
		{ocr.NewQualityError(domain.MethodOpticalRecog, ocr.CodeLowQuality, nil, nil), true},
		{ocr.NewNetworkError(domain.MethodRemoteFallback, ocr.CodeServiceUnavailable, "", nil), true},
		{ocr.NewFileError(domain.MethodNativeText, ocr.CodeCorruptedFile, "a.pdf", nil), false},
		{ocr.NewFileError(domain.MethodNativeText, ocr.CodeFileTooLarge, "a.pdf", nil), false},
		{ocr.NewConfigError(ocr.CodeInvalidConfig, "bad"), false},
		{errors.New("untyped"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ocr.ShouldFallback(tt.err), "error: %v", tt.err)
	}
}

func TestShouldRetry(t *testing.T) {
	netErr := ocr.NewNetworkError(domain.MethodRemoteFallback, ocr.CodeNetworkError, "", nil)
	timeoutErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeTimeout, nil, nil)
	memErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeMemoryError, nil, nil)
	qualityErr := ocr.NewQualityError(domain.MethodOpticalRecog, ocr.CodeLowQuality, nil, nil)
	procErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeProcessingFailed, nil, nil)

	assert.True(t, ocr.ShouldRetry(netErr, 1, 3))
	assert.True(t, ocr.ShouldRetry(timeoutErr, 1, 3))
	assert.True(t, ocr.ShouldRetry(memErr, 2, 3))

	// Budget exhausted
	assert.False(t, ocr.ShouldRetry(netErr, 3, 3))
	assert.False(t, ocr.ShouldRetry(netErr, 4, 3))

	// Quality failures never retry with the same method
	assert.False(t, ocr.ShouldRetry(qualityErr, 1, 3))

	// Generic processing failures fall back instead of retrying
	assert.False(t, ocr.ShouldRetry(procErr, 1, 3))

	assert.False(t, ocr.ShouldRetry(errors.New("untyped"), 1, 3))
}

func TestRetryDelay(t *testing.T) {
	netErr := ocr.NewNetworkError(domain.MethodRemoteFallback, ocr.CodeNetworkError, "", nil)
	memErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeMemoryError, nil, nil)
	timeoutErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeTimeout, nil, nil)
	otherErr := ocr.NewProcessingError(domain.MethodOpticalRecog, ocr.CodeProcessingFailed, nil, nil)

	// Network: exponential, capped at 30s
	assert.Equal(t, 2*time.Second, ocr.RetryDelay(netErr, 1))
	assert.Equal(t, 4*time.Second, ocr.RetryDelay(netErr, 2))
	assert.Equal(t, 30*time.Second, ocr.RetryDelay(netErr, 10))

	// Memory: linear, capped at 15s
	assert.Equal(t, 3*time.Second, ocr.RetryDelay(memErr, 1))
	assert.Equal(t, 15*time.Second, ocr.RetryDelay(memErr, 9))

	// Timeout: short linear, capped at 10s
	assert.Equal(t, 2*time.Second, ocr.RetryDelay(timeoutErr, 1))
	assert.Equal(t, 10*time.Second, ocr.RetryDelay(timeoutErr, 20))

	// Default: linear
	assert.Equal(t, 3*time.Second, ocr.RetryDelay(otherErr, 3))
}

func TestAllMethodsFailedError(t *testing.T) {
	errs := []error{
		ocr.NewProcessingError(domain.MethodNativeText, ocr.CodeProcessingFailed, nil, nil),
		ocr.NewQualityError(domain.MethodOpticalRecog, ocr.CodeLowQuality, nil, nil),
	}
	agg := ocr.NewAllMethodsFailedError(errs)

	assert.Equal(t, "All OCR methods failed", agg.Message)
	assert.Equal(t, ocr.CodeProcessingFailed, agg.Code)
	assert.False(t, agg.Retryable)

	details, ok := agg.Context["errors"].([]string)
	assert.True(t, ok)
	assert.Len(t, details, 2)
	assert.Contains(t, fmt.Sprint(details), "low-quality")
}

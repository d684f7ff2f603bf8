package ocr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"caseflow/internal/ocr"
)

func TestDefaultOptions(t *testing.T) {
	opts := ocr.DefaultOptions()

	assert.True(t, opts.EnableNativeText)
	assert.True(t, opts.EnableOpticalRecognition)
	assert.True(t, opts.EnableRemoteFallback)
	assert.Equal(t, ocr.DefaultTimeoutMs, opts.TimeoutMs)
	assert.Equal(t, ocr.DefaultRetryAttempts, opts.RetryAttempts)
}

func TestAttemptTimeout(t *testing.T) {
	opts := ocr.Options{TimeoutMs: 2500}
	assert.Equal(t, 2500*time.Millisecond, opts.AttemptTimeout())
}

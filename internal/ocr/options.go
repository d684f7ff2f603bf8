package ocr

import "time"

// Option bounds. Callers outside these ranges are clamped, not rejected.
const (
	MinTimeoutMs     = 1000
	MaxTimeoutMs     = 300000
	DefaultTimeoutMs = 30000

	MaxRetryAttempts     = 10
	DefaultRetryAttempts = 2
)

// Options is the per-call extraction configuration. Immutable for the
// duration of one ExtractText invocation.
type Options struct {
	EnableNativeText         bool
	EnableOpticalRecognition bool
	EnableRemoteFallback     bool

	// TimeoutMs bounds each individual engine attempt, not the whole chain.
	TimeoutMs int

	// RetryAttempts is the extra-attempt budget per method.
	RetryAttempts int

	// MIMEType is an optional classifier hint; the locator extension is
	// used when empty.
	MIMEType string

	// RemoteID is the identifier the hosted fallback capability knows
	// the document by. The locator is used when empty.
	RemoteID string
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		EnableNativeText:         true,
		EnableOpticalRecognition: true,
		EnableRemoteFallback:     true,
		TimeoutMs:                DefaultTimeoutMs,
		RetryAttempts:            DefaultRetryAttempts,
	}
}

// normalized applies defaults and clamps bounds.
func (o Options) normalized() Options {
	if o.TimeoutMs == 0 {
		o.TimeoutMs = DefaultTimeoutMs
	}
	if o.TimeoutMs < MinTimeoutMs {
		o.TimeoutMs = MinTimeoutMs
	}
	if o.TimeoutMs > MaxTimeoutMs {
		o.TimeoutMs = MaxTimeoutMs
	}
	if o.RetryAttempts < 0 {
		o.RetryAttempts = 0
	}
	if o.RetryAttempts > MaxRetryAttempts {
		o.RetryAttempts = MaxRetryAttempts
	}
	return o
}

// AttemptTimeout returns the per-attempt timeout as a duration.
func (o Options) AttemptTimeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
	"caseflow/internal/service"
	"caseflow/mocks"
)

func TestBatchRunner_PreservesInputOrder(t *testing.T) {
	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}

	hasText := true
	native.On("Attempt", mock.Anything, mock.Anything).Return(&port.EngineOutput{
		Text:          extractedBody,
		HasNativeText: &hasText,
	}, nil)

	runner := service.NewBatchRunner(
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		ocr.DefaultOptions(),
		4,
	)

	locators := []string{"cases/a.pdf", "cases/b.pdf", "cases/c.pdf", "cases/d.pdf", "cases/e.pdf"}
	results := runner.ProcessMany(context.Background(), locators)

	require.Len(t, results, len(locators))
	for i, r := range results {
		assert.Equal(t, locators[i], r.Locator)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Result)
		assert.Equal(t, extractedBody, r.Result.Text)
	}
}

func TestBatchRunner_OneFailureDoesNotAbortTheRest(t *testing.T) {
	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}

	hasText := true
	corrupted := ocr.NewFileError(domain.MethodNativeText, ocr.CodeCorruptedFile, "cases/broken.pdf", nil)

	native.On("Attempt", mock.Anything, mock.MatchedBy(func(in port.EngineInput) bool {
		return in.Locator == "cases/broken.pdf"
	})).Return(nil, corrupted)
	native.On("Attempt", mock.Anything, mock.Anything).Return(&port.EngineOutput{
		Text:          extractedBody,
		HasNativeText: &hasText,
	}, nil)

	opts := ocr.DefaultOptions()
	opts.EnableOpticalRecognition = false
	opts.EnableRemoteFallback = false

	runner := service.NewBatchRunner(
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		opts,
		2,
	)

	results := runner.ProcessMany(context.Background(), []string{
		"cases/fine.pdf", "cases/broken.pdf", "cases/also-fine.pdf",
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[2].Err)
}

func TestBatchRunner_BoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}
	hasText := true
	native.On("Attempt", mock.Anything, mock.Anything).
		Run(func(_ mock.Arguments) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
		}).
		Return(&port.EngineOutput{Text: extractedBody, HasNativeText: &hasText}, nil)

	runner := service.NewBatchRunner(
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		ocr.DefaultOptions(),
		2,
	)

	locators := make([]string, 10)
	for i := range locators {
		locators[i] = "cases/doc.pdf"
	}
	runner.ProcessMany(context.Background(), locators)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}

func TestBatchRunner_EmptyInput(t *testing.T) {
	runner := service.NewBatchRunner(orchestratorWith(nil), ocr.DefaultOptions(), 2)
	assert.Empty(t, runner.ProcessMany(context.Background(), nil))
}

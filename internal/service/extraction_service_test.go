package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
	"caseflow/internal/service"
	"caseflow/mocks"
)

const extractedBody = "The deposition transcript covers the events of March in considerable detail."

func pdfDocument() *domain.Document {
	return &domain.Document{
		ID:          uuid.New(),
		CaseID:      uuid.New(),
		FileName:    "deposition.pdf",
		ContentType: "application/pdf",
		S3Bucket:    "caseflow-uploads",
		S3Key:       "cases/deposition.pdf",
		OcrStatus:   domain.OcrStatusProcessing,
	}
}

func orchestratorWith(engines map[domain.OcrMethod]port.ExtractionEngine) *ocr.Orchestrator {
	fetch := func(_ context.Context, _ string) ([]byte, string, error) {
		return []byte("%PDF-1.7"), "application/pdf", nil
	}
	return ocr.NewOrchestrator(engines, fetch)
}

func TestExtractionService_ProcessDocumentSuccess(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	recorder := new(mocks.MockMetadataRecorder)
	notifier := new(mocks.MockTextReadyNotifier)
	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}

	doc := pdfDocument()

	hasText := true
	native.On("Attempt", mock.Anything, mock.Anything).Return(&port.EngineOutput{
		Text:          extractedBody,
		PageCount:     12,
		HasNativeText: &hasText,
	}, nil).Once()

	recorder.On("MarkPending", mock.Anything, doc.ID, domain.MethodNativeText).Return(nil).Once()
	recorder.On("RecordSuccess", mock.Anything, doc.ID, mock.AnythingOfType("*ocr.Result"), 0).Return(nil).Once()
	notifier.On("NotifyTextReady", mock.Anything, doc.ID, extractedBody).Return(nil).Once()

	svc := service.NewExtractionService(
		docRepo,
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		recorder,
		notifier,
		ocr.DefaultOptions(),
	)

	svc.ProcessDocument(context.Background(), doc)

	recorder.AssertExpectations(t)
	notifier.AssertExpectations(t)
	recorder.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_TerminalFailureRecordsAndSignalsSentinel(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	recorder := new(mocks.MockMetadataRecorder)
	notifier := new(mocks.MockTextReadyNotifier)
	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}

	doc := pdfDocument()

	native.On("Attempt", mock.Anything, mock.Anything).Return(nil,
		ocr.NewFileError(domain.MethodNativeText, ocr.CodeCorruptedFile, doc.S3Key, nil)).Once()

	recorder.On("MarkPending", mock.Anything, doc.ID, domain.MethodNativeText).Return(nil).Once()
	recorder.On("RecordFailure", mock.Anything, doc.ID, mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("int")).
		Return(nil).Once()
	notifier.On("NotifyTextReady", mock.Anything, doc.ID, service.SentinelFailureText).Return(nil).Once()

	opts := ocr.DefaultOptions()
	opts.EnableOpticalRecognition = false
	opts.EnableRemoteFallback = false

	svc := service.NewExtractionService(
		docRepo,
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		recorder,
		notifier,
		opts,
	)

	svc.ProcessDocument(context.Background(), doc)

	recorder.AssertExpectations(t)
	notifier.AssertExpectations(t)
	recorder.AssertNotCalled(t, "RecordSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_NoMethodsAvailableFailsWithoutEngines(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	recorder := new(mocks.MockMetadataRecorder)
	notifier := new(mocks.MockTextReadyNotifier)

	doc := pdfDocument()

	recorder.On("RecordFailure", mock.Anything, doc.ID, domain.OcrMethod(""), "No OCR methods available", 0).
		Return(nil).Once()
	notifier.On("NotifyTextReady", mock.Anything, doc.ID, service.SentinelFailureText).Return(nil).Once()

	svc := service.NewExtractionService(
		docRepo,
		orchestratorWith(nil),
		recorder,
		notifier,
		ocr.Options{},
	)

	svc.ProcessDocument(context.Background(), doc)

	recorder.AssertExpectations(t)
	recorder.AssertNotCalled(t, "MarkPending", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionService_ProcessByIDLooksUpDocument(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	recorder := new(mocks.MockMetadataRecorder)
	notifier := new(mocks.MockTextReadyNotifier)
	native := &mocks.MockExtractionEngine{EngineMethod: domain.MethodNativeText}

	doc := pdfDocument()

	hasText := true
	native.On("Attempt", mock.Anything, mock.Anything).Return(&port.EngineOutput{
		Text:          extractedBody,
		HasNativeText: &hasText,
	}, nil).Once()

	docRepo.On("GetByID", mock.Anything, doc.ID).Return(doc, nil).Once()
	recorder.On("MarkPending", mock.Anything, doc.ID, domain.MethodNativeText).Return(nil).Once()
	recorder.On("RecordSuccess", mock.Anything, doc.ID, mock.AnythingOfType("*ocr.Result"), 0).Return(nil).Once()
	notifier.On("NotifyTextReady", mock.Anything, doc.ID, extractedBody).Return(nil).Once()

	svc := service.NewExtractionService(
		docRepo,
		orchestratorWith(map[domain.OcrMethod]port.ExtractionEngine{domain.MethodNativeText: native}),
		recorder,
		notifier,
		ocr.DefaultOptions(),
	)

	err := svc.ProcessByID(context.Background(), doc.ID)
	require.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestExtractionService_ProcessByIDUnknownDocument(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	recorder := new(mocks.MockMetadataRecorder)
	notifier := new(mocks.MockTextReadyNotifier)

	docID := uuid.New()
	docRepo.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrDocumentNotFound).Once()

	svc := service.NewExtractionService(docRepo, orchestratorWith(nil), recorder, notifier, ocr.DefaultOptions())

	err := svc.ProcessByID(context.Background(), docID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	recorder.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
)

// MockMetadataRecorder is a mock implementation of service.MetadataRecorder.
type MockMetadataRecorder struct {
	mock.Mock
}

func (m *MockMetadataRecorder) MarkPending(ctx context.Context, documentID uuid.UUID, firstMethod domain.OcrMethod) error {
	args := m.Called(ctx, documentID, firstMethod)
	return args.Error(0)
}

func (m *MockMetadataRecorder) RecordSuccess(ctx context.Context, documentID uuid.UUID, result *ocr.Result, retryCount int) error {
	args := m.Called(ctx, documentID, result, retryCount)
	return args.Error(0)
}

func (m *MockMetadataRecorder) RecordFailure(ctx context.Context, documentID uuid.UUID, lastMethod domain.OcrMethod, errorMessage string, retryCount int) error {
	args := m.Called(ctx, documentID, lastMethod, errorMessage, retryCount)
	return args.Error(0)
}

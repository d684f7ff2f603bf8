package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTextReadyNotifier is a mock implementation of port.TextReadyNotifier.
type MockTextReadyNotifier struct {
	mock.Mock
}

func (m *MockTextReadyNotifier) NotifyTextReady(ctx context.Context, documentID uuid.UUID, text string) error {
	args := m.Called(ctx, documentID, text)
	return args.Error(0)
}

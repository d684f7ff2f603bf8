package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"caseflow/internal/domain"
	"caseflow/internal/port"
)

// MockExtractionEngine is a mock implementation of port.ExtractionEngine.
type MockExtractionEngine struct {
	mock.Mock

	// EngineMethod is returned by Method without an expectation so tests
	// can register one engine per slot in the chain.
	EngineMethod domain.OcrMethod
}

func (m *MockExtractionEngine) Method() domain.OcrMethod {
	return m.EngineMethod
}

func (m *MockExtractionEngine) Attempt(ctx context.Context, input port.EngineInput) (*port.EngineOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineOutput), args.Error(1)
}

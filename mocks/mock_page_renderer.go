package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPageRenderer is a mock implementation of port.PageRenderer.
type MockPageRenderer struct {
	mock.Mock
}

func (m *MockPageRenderer) RenderPages(ctx context.Context, fileBytes []byte, maxPages int) ([][]byte, error) {
	args := m.Called(ctx, fileBytes, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]byte), args.Error(1)
}

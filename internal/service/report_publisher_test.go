package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"caseflow/internal/port"
	"caseflow/internal/service"
	"caseflow/mocks"
)

func TestReportPublisher_UploadsAndPresigns(t *testing.T) {
	storage := new(mocks.MockObjectStorage)

	var uploaded port.UploadInput
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			uploaded = args.Get(1).(port.UploadInput)
		}).
		Return(&port.UploadOutput{Location: "https://bucket/reports/r.csv"}, nil).Once()
	storage.On("GetPresignedURL", mock.Anything, "caseflow-uploads", "reports/ocr_report.csv", int64(3600)).
		Return("https://signed.example/reports/ocr_report.csv", nil).Once()

	publisher := service.NewReportPublisher(storage, "caseflow-uploads", 3600)
	url, err := publisher.Publish(context.Background(), "ocr_report.csv", "text/csv", []byte("File Name\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://signed.example/reports/ocr_report.csv", url)
	assert.Equal(t, "caseflow-uploads", uploaded.Bucket)
	assert.Equal(t, "reports/ocr_report.csv", uploaded.Key)
	assert.Equal(t, "text/csv", uploaded.ContentType)
	assert.Equal(t, int64(10), uploaded.Size)

	body, err := io.ReadAll(uploaded.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("File Name\n"), body)
	storage.AssertExpectations(t)
}

func TestReportPublisher_UploadFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

	publisher := service.NewReportPublisher(storage, "caseflow-uploads", 3600)
	_, err := publisher.Publish(context.Background(), "r.csv", "text/csv", []byte("x"))
	assert.ErrorIs(t, err, assert.AnError)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportPublisher_PresignFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil).Once()
	storage.On("GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError).Once()

	publisher := service.NewReportPublisher(storage, "caseflow-uploads", 3600)
	_, err := publisher.Publish(context.Background(), "r.csv", "text/csv", []byte("x"))
	assert.ErrorIs(t, err, assert.AnError)
}

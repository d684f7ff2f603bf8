package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"

	"caseflow/internal/port"
)

// reportPrefix is the bucket prefix generated reports live under, away
// from the case documents themselves.
const reportPrefix = "reports"

// ReportPublisher uploads a generated OCR report to object storage and
// hands back a time-limited share link.
type ReportPublisher struct {
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
}

// NewReportPublisher creates a ReportPublisher writing into bucket with
// the given presigned-link lifetime in seconds.
func NewReportPublisher(storage port.ObjectStorage, bucket string, presignExpiry int64) *ReportPublisher {
	return &ReportPublisher{
		storage:       storage,
		bucket:        bucket,
		presignExpiry: presignExpiry,
	}
}

// Publish uploads the report body under reports/<fileName> and returns
// a presigned URL for it.
func (p *ReportPublisher) Publish(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := path.Join(reportPrefix, fileName)

	if _, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	}); err != nil {
		return "", fmt.Errorf("reportPublisher.Publish: upload: %w", err)
	}

	url, err := p.storage.GetPresignedURL(ctx, p.bucket, key, p.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("reportPublisher.Publish: presign: %w", err)
	}

	log.Printf("reportPublisher: published %s (%d bytes)", key, len(data))
	return url, nil
}

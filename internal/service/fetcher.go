package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"caseflow/internal/domain"
	"caseflow/internal/ocr"
	"caseflow/internal/port"
)

// NewStorageFetcher builds the orchestrator's fetch function on top of
// object storage. Locators of the form "s3://bucket/key" carry their own
// bucket; bare keys use defaultBucket. The content type is sniffed from
// magic bytes, the same way uploads are validated.
func NewStorageFetcher(storage port.ObjectStorage, defaultBucket string, maxFileSizeMB int64) ocr.FetchFunc {
	return func(ctx context.Context, locator string) ([]byte, string, error) {
		bucket, key := defaultBucket, locator
		if rest, ok := strings.CutPrefix(locator, "s3://"); ok {
			if b, k, found := strings.Cut(rest, "/"); found {
				bucket, key = b, k
			}
		}

		data, err := storage.Download(ctx, bucket, key)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: %v", domain.ErrDownloadFailed, locator, err)
		}

		if maxFileSizeMB > 0 && int64(len(data)) > maxFileSizeMB*1024*1024 {
			return nil, "", fmt.Errorf("%w: %s (%d bytes)", domain.ErrFileTooLarge, locator, len(data))
		}

		sniff := data
		if len(sniff) > 512 {
			sniff = sniff[:512]
		}
		return data, http.DetectContentType(sniff), nil
	}
}

package domain

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrDownloadFailed   = errors.New("file download from storage failed")
)

package ocr

import (
	"path/filepath"
	"strings"

	"caseflow/internal/domain"
)

// ClassifyDocument declares the document type from a MIME hint or, when
// none is supplied, the locator's extension. Unknown inputs degrade to
// DocumentTypeUnknown; this never fails.
func ClassifyDocument(locator, mimeType string) domain.DocumentType {
	if mimeType != "" {
		if t, ok := domain.AllowedContentTypes[mimeType]; ok {
			return t
		}
		if strings.HasPrefix(mimeType, "image/") {
			return domain.DocumentTypeImage
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(locator), "."))
	switch {
	case ext == "pdf":
		return domain.DocumentTypePDF
	case domain.ImageExtensions[ext]:
		return domain.DocumentTypeImage
	default:
		return domain.DocumentTypeUnknown
	}
}

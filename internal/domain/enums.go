package domain

// DocumentType is the classified kind of an uploaded document.
type DocumentType string

const (
	DocumentTypePDF     DocumentType = "pdf"
	DocumentTypeImage   DocumentType = "image"
	DocumentTypeUnknown DocumentType = "unknown"
)

// OcrMethod identifies which extraction engine produced a result.
type OcrMethod string

const (
	MethodNativeText     OcrMethod = "native-text-extraction"
	MethodOpticalRecog   OcrMethod = "optical-recognition"
	MethodRemoteFallback OcrMethod = "remote-fallback"
)

// OcrStatus represents the extraction lifecycle of a document.
type OcrStatus string

const (
	OcrStatusPending    OcrStatus = "pending"
	OcrStatusQueued     OcrStatus = "queued"
	OcrStatusProcessing OcrStatus = "processing"
	OcrStatusCompleted  OcrStatus = "completed"
	OcrStatusFailed     OcrStatus = "failed"
)

// ImageExtensions lists the file extensions (without dot) classified as images.
var ImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"tiff": true,
	"tif":  true,
	"bmp":  true,
	"webp": true,
}

// AllowedContentTypes maps MIME content types to a DocumentType.
var AllowedContentTypes = map[string]DocumentType{
	"application/pdf": DocumentTypePDF,
	"image/jpeg":      DocumentTypeImage,
	"image/png":       DocumentTypeImage,
	"image/tiff":      DocumentTypeImage,
	"image/bmp":       DocumentTypeImage,
	"image/webp":      DocumentTypeImage,
}

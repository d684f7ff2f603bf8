package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is the external document record this subsystem reads and
// writes OCR metadata onto. The wider case-management schema (cases,
// users, subscriptions) lives outside this module.
type Document struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaseID      uuid.UUID `db:"case_id" json:"case_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	S3Bucket    string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key       string    `db:"s3_key" json:"s3_key"`
	SecureURL   string    `db:"secure_url" json:"secure_url"`
	RemoteID    string    `db:"remote_id" json:"remote_id"`

	ExtractedText string `db:"extracted_text" json:"extracted_text"`

	OcrStatus           OcrStatus  `db:"ocr_status" json:"ocr_status"`
	OcrMethodUsed       string     `db:"ocr_method_used" json:"ocr_method_used"`
	OcrConfidence       *float64   `db:"ocr_confidence" json:"ocr_confidence"`
	OcrProcessingTimeMs int64      `db:"ocr_processing_time_ms" json:"ocr_processing_time_ms"`
	OcrRetryCount       int        `db:"ocr_retry_count" json:"ocr_retry_count"`
	OcrErrorDetails     string     `db:"ocr_error_details" json:"ocr_error_details"`
	OcrLastAttempt      *time.Time `db:"ocr_last_attempt" json:"ocr_last_attempt"`
	OcrAttempts         int        `db:"ocr_attempts" json:"ocr_attempts"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Locator returns the opaque reference engines use to identify this
// document: the storage coordinates when present, else the secure URL.
func (d *Document) Locator() string {
	if d.S3Key != "" {
		return d.S3Key
	}
	return d.SecureURL
}

// DocumentOcrMetadata is the persisted projection of one orchestration
// outcome. Every write replaces all fields; nothing is merged.
type DocumentOcrMetadata struct {
	Status           OcrStatus
	MethodUsed       string
	Confidence       *float64
	ProcessingTimeMs int64
	RetryCount       int
	ErrorDetails     string
	LastAttempt      time.Time
	ExtractedText    string
}

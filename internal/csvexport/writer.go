package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"caseflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (12 columns).
var columns = []string{
	"File Name",
	"Case ID",
	"Content Type",
	"OCR Status",
	"Method Used",
	"Confidence",
	"Processing Time (ms)",
	"Retry Count",
	"Attempts",
	"Error Details",
	"Last Attempt",
	"Created At",
}

// Writer wraps csv.Writer for exporting OCR outcomes as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		row := documentToRow(&docs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// documentToRow converts a single document to a 12-element string slice.
// Metadata columns are always filled; outcome columns stay empty until an
// extraction has been attempted.
func documentToRow(doc *domain.Document) []string {
	row := make([]string, len(columns))

	row[0] = doc.FileName
	row[1] = doc.CaseID.String()
	row[2] = doc.ContentType
	row[3] = string(doc.OcrStatus)
	row[4] = doc.OcrMethodUsed
	row[5] = formatConfidence(doc.OcrConfidence)
	row[8] = strconv.Itoa(doc.OcrAttempts)
	row[9] = doc.OcrErrorDetails
	row[10] = formatTime(doc.OcrLastAttempt)
	row[11] = doc.CreatedAt.Format(time.RFC3339)

	if doc.OcrStatus == domain.OcrStatusCompleted || doc.OcrStatus == domain.OcrStatusFailed {
		row[6] = strconv.FormatInt(doc.OcrProcessingTimeMs, 10)
		row[7] = strconv.Itoa(doc.OcrRetryCount)
	}

	return row
}

func formatConfidence(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in file names. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for a report.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}

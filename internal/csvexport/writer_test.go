package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"caseflow/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 12)
	assert.Equal(t, "File Name", row[0])
	assert.Equal(t, "OCR Status", row[3])
	assert.Equal(t, "Created At", row[11])
}

func completedDoc() domain.Document {
	conf := 0.91
	attempt := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	return domain.Document{
		ID:                  uuid.New(),
		CaseID:              uuid.New(),
		FileName:            "deposition.pdf",
		ContentType:         "application/pdf",
		OcrStatus:           domain.OcrStatusCompleted,
		OcrMethodUsed:       string(domain.MethodNativeText),
		OcrConfidence:       &conf,
		OcrProcessingTimeMs: 812,
		OcrRetryCount:       0,
		OcrAttempts:         1,
		OcrLastAttempt:      &attempt,
		CreatedAt:           time.Date(2026, 8, 13, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteDocuments_Completed(t *testing.T) {
	doc := completedDoc()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "deposition.pdf", row[0])
	assert.Equal(t, doc.CaseID.String(), row[1])
	assert.Equal(t, "completed", row[3])
	assert.Equal(t, "native-text-extraction", row[4])
	assert.Equal(t, "0.91", row[5])
	assert.Equal(t, "812", row[6])
	assert.Equal(t, "0", row[7])
	assert.Equal(t, "1", row[8])
	assert.Empty(t, row[9])
	assert.Equal(t, "2026-08-14T10:30:00Z", row[10])
}

func TestWriteDocuments_PendingLeavesOutcomeColumnsEmpty(t *testing.T) {
	doc := domain.Document{
		ID:        uuid.New(),
		CaseID:    uuid.New(),
		FileName:  "fresh.png",
		OcrStatus: domain.OcrStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "pending", row[3])
	assert.Empty(t, row[5], "confidence")
	assert.Empty(t, row[6], "processing time")
	assert.Empty(t, row[7], "retry count")
	assert.Empty(t, row[10], "last attempt")
}

func TestWriteDocuments_FailedCarriesErrorDetails(t *testing.T) {
	doc := completedDoc()
	doc.OcrStatus = domain.OcrStatusFailed
	doc.OcrConfidence = nil
	doc.OcrErrorDetails = "All OCR methods failed"
	doc.OcrRetryCount = 3

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Equal(t, "failed", row[3])
	assert.Empty(t, row[5])
	assert.Equal(t, "3", row[7])
	assert.Equal(t, "All OCR methods failed", row[9])
}

func TestWriteXLSX(t *testing.T) {
	doc := completedDoc()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []domain.Document{doc}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("OCR Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "File Name", rows[0][0])
	assert.Equal(t, "deposition.pdf", rows[1][0])
	assert.Equal(t, "completed", rows[1][3])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Case 42 / OCR Report", "Case_42_OCR_Report"},
		{"___already__clean___", "already_clean"},
		{"simple", "simple"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("ocr report", "csv")
	assert.Regexp(t, `^ocr_report_\d{4}-\d{2}-\d{2}\.csv$`, name)
}

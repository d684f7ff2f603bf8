// Command ocrreport exports the OCR outcome of every document with the
// given status to a CSV or Excel file, and publishes the report to the
// configured bucket with a presigned share link.
// Usage: go run ./cmd/ocrreport [status] [csv|xlsx]
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"caseflow/internal/config"
	"caseflow/internal/csvexport"
	"caseflow/internal/domain"
	"caseflow/internal/repository/postgres"
	"caseflow/internal/service"
	s3storage "caseflow/internal/storage/s3"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	status := domain.OcrStatusCompleted
	if len(os.Args) > 1 {
		status = domain.OcrStatus(os.Args[1])
	}
	format := "csv"
	if len(os.Args) > 2 {
		format = os.Args[2]
	}
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	docRepo := postgres.NewDocumentRepo(db)

	ctx := context.Background()
	var docs []domain.Document
	offset := 0
	for {
		page, total, err := docRepo.ListByOcrStatus(ctx, status, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing documents at offset %d: %w", offset, err)
		}
		docs = append(docs, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		if err := csvexport.WriteXLSX(&buf, docs); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
	default:
		if _, err := buf.Write(csvexport.BOM); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		if err := w.WriteDocuments(docs); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flushing CSV: %w", err)
		}
	}

	outPath := csvexport.BuildFilename("ocr_report_"+string(status), format)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	log.Printf("Report complete: %d document(s) with status %s written to %s", len(docs), status, outPath)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		log.Printf("WARN: skipping report upload: %v", err)
		return nil
	}
	publisher := service.NewReportPublisher(s3Client, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	url, err := publisher.Publish(ctx, outPath, contentType, buf.Bytes())
	if err != nil {
		log.Printf("WARN: report upload failed: %v", err)
		return nil
	}
	log.Printf("Report published: %s", url)
	return nil
}

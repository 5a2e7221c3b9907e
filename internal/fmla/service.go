package fmla

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fmla-backend/internal/llm"
	"fmla-backend/internal/pdfmeta"
	"fmla-backend/internal/shared/metrics"
	"fmla-backend/internal/shared/telemetry"
)

const defaultExtractTimeout = 120 * time.Second

// Service runs the upload → metadata → extraction → sanitize pipeline.
type Service struct {
	Pages     pdfmeta.Reader
	LLM       llm.Extractor
	Sanitizer *Sanitizer
	// Prompt is the fixed extraction instruction sent with every document.
	Prompt string
	// Timeout bounds the provider call. Zero means defaultExtractTimeout.
	Timeout time.Duration
}

// Process runs every stage in order and stops at the first failure. Failures
// are returned as *StageError wrapping the stage's own error kind.
func (s *Service) Process(ctx context.Context, up Upload) (Result, error) {
	start := time.Now()
	metrics.IncExtractionStarted()

	res, err := s.process(ctx, up)
	metrics.ObserveExtractionDurationMs(metrics.SinceMillis(start))
	if err != nil {
		stage := StageValidating
		var se *StageError
		if errors.As(err, &se) {
			stage = se.Stage
		}
		metrics.IncExtractionFailed(string(stage))
		return Result{}, err
	}
	metrics.IncExtractionCompleted()
	return res, nil
}

func (s *Service) process(ctx context.Context, up Upload) (Result, error) {
	if up.Data == nil {
		return Result{}, failAt(StageValidating, ErrInputValidation)
	}

	pages, err := s.Pages.PageCount(up.Data)
	if err != nil {
		return Result{}, failAt(StageReadingMetadata, fmt.Errorf("failed to read PDF: %w", err))
	}
	metrics.ObservePageCount(pages)

	doc := llm.EncodeDocument(up.Data, pdfmeta.MimePDF)
	raw, err := s.extract(ctx, doc)
	if err != nil {
		return Result{}, failAt(StageExtracting, err)
	}

	rec, err := s.Sanitizer.Sanitize(raw)
	if err != nil {
		return Result{}, failAt(StageSanitizing, err)
	}

	telemetry.Info("fmla.extract.complete", map[string]any{
		"file_name":      up.FileName,
		"file_size":      up.Size,
		"page_count":     pages,
		"missing_fields": len(MissingFields(rec)),
	})

	return Result{
		Data: rec,
		Metadata: Metadata{
			FileName:  up.FileName,
			FileSize:  up.Size,
			PageCount: pages,
		},
	}, nil
}

// extract detaches the provider call from client cancellation so a
// disconnect does not abort it, and bounds it with Timeout instead.
func (s *Service) extract(ctx context.Context, doc llm.Document) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultExtractTimeout
	}
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return s.LLM.Extract(callCtx, doc, s.Prompt)
}

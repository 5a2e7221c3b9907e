package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesCountersAndHistograms(t *testing.T) {
	IncExtractionStarted()
	IncExtractionCompleted()
	IncExtractionFailed("extracting")
	IncExtractionFailed("extracting")
	IncExtractionFailed("reading_metadata")
	ObserveExtractionDurationMs(1200)
	ObservePageCount(3)

	out := Render()

	for _, want := range []string{
		"# TYPE fmla_extraction_started_total counter",
		"# TYPE fmla_extraction_failed_total counter",
		`fmla_extraction_failed_total{stage="extracting"}`,
		`fmla_extraction_failed_total{stage="reading_metadata"}`,
		`fmla_extraction_duration_ms_bucket{le="2500"}`,
		`fmla_document_pages_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}

	extracting := strings.Index(out, `stage="extracting"`)
	reading := strings.Index(out, `stage="reading_metadata"`)
	if extracting > reading {
		t.Fatalf("expected labels sorted")
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected 3 observations, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected per-bucket counts %v", snap.counts)
	}
}

package fmla

// Stage names a step of the request pipeline.
type Stage string

const (
	StageValidating      Stage = "validating"
	StageReadingMetadata Stage = "reading_metadata"
	StageExtracting      Stage = "extracting"
	StageSanitizing      Stage = "sanitizing"
)

// Upload is the transient document received in one request.
type Upload struct {
	FileName  string
	Size      int64
	MediaType string
	Data      []byte
}

// ExtractionResult is the model's reply decoded as a JSON object. Fields are
// best-effort and are passed through unvalidated.
type ExtractionResult map[string]any

// Metadata describes the uploaded document.
type Metadata struct {
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	PageCount int    `json:"pageCount"`
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Data     ExtractionResult
	Metadata Metadata
}

// SuccessEnvelope is the 200 response body.
type SuccessEnvelope struct {
	Success  bool             `json:"success"`
	Data     ExtractionResult `json:"data"`
	Metadata Metadata         `json:"metadata"`
}

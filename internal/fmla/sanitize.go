package fmla

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"fmla-backend/internal/shared/telemetry"
)

var (
	openFence  = regexp.MustCompile("^```[A-Za-z0-9_.+-]*")
	closeFence = regexp.MustCompile("```$")
)

// Sanitizer turns the model's text reply into an ExtractionResult.
type Sanitizer struct {
	// Schema, when set, logs drift from the requested fields. It never
	// changes the outcome.
	Schema *AdvisorySchema
}

// StripFences removes surrounding whitespace and an enclosing markdown code
// fence, with or without a language tag.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if openFence.MatchString(s) {
		s = strings.TrimSpace(openFence.ReplaceAllString(s, ""))
	}
	if closeFence.MatchString(s) {
		s = strings.TrimSpace(closeFence.ReplaceAllString(s, ""))
	}
	return s
}

// Sanitize parses raw as a single JSON object. On failure the raw text is
// logged and returned inside a *MalformedExtractionError.
func (s *Sanitizer) Sanitize(raw string) (ExtractionResult, error) {
	cleaned := StripFences(raw)

	var rec ExtractionResult
	err := json.Unmarshal([]byte(cleaned), &rec)
	if err == nil && rec == nil {
		err = errors.New("reply is null, expected a JSON object")
	}
	if err != nil {
		telemetry.Error("fmla.sanitize.invalid_json", map[string]any{
			"err":     err,
			"raw":     raw,
			"raw_len": len(raw),
		})
		return nil, &MalformedExtractionError{Raw: raw, Err: err}
	}

	if s != nil && s.Schema != nil {
		if verr := s.Schema.Check(rec); verr != nil {
			telemetry.Warn("fmla.sanitize.schema_drift", map[string]any{
				"err":     verr,
				"missing": MissingFields(rec),
			})
		}
	}
	return rec, nil
}

// Sanitize parses raw without schema drift logging.
func Sanitize(raw string) (ExtractionResult, error) {
	return (*Sanitizer)(nil).Sanitize(raw)
}

package llm

import (
	"context"
	"encoding/base64"
	"errors"
)

// Extractor abstracts LLM providers that read a document and answer a prompt.
type Extractor interface {
	Extract(ctx context.Context, doc Document, prompt string) (string, error)
}

// Document is an inline attachment ready for transport.
type Document struct {
	// Data is the standard base64 encoding of the raw bytes.
	Data      string
	MediaType string
}

// EncodeDocument base64-encodes raw bytes for embedding in a JSON request.
func EncodeDocument(raw []byte, mediaType string) Document {
	return Document{
		Data:      base64.StdEncoding.EncodeToString(raw),
		MediaType: mediaType,
	}
}

// ErrExternalService wraps every failure to obtain a reply from the provider.
var ErrExternalService = errors.New("external service error")

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is used when no provider credential is available.
type PlaceholderClient struct{}

// Extract returns ErrNotConfigured wrapped as an external service failure.
func (PlaceholderClient) Extract(ctx context.Context, doc Document, prompt string) (string, error) {
	_ = ctx
	_ = doc
	_ = prompt
	return "", errors.Join(ErrExternalService, ErrNotConfigured)
}

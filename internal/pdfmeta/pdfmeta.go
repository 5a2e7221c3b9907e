// Package pdfmeta derives basic metadata from uploaded PDF bytes.
package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MimePDF is the only media type the metadata readers accept.
const MimePDF = "application/pdf"

// ErrDocumentFormat is returned when the bytes are not a readable PDF.
var ErrDocumentFormat = errors.New("document format error")

// Reader returns the page count of an in-memory PDF.
type Reader interface {
	PageCount(data []byte) (int, error)
}

// New returns the reader registered under name, defaulting to ledongthuc.
func New(name string) Reader {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdfcpu":
		return PDFCPUReader{}
	default:
		return LedongthucReader{}
	}
}

// LedongthucReader counts pages with github.com/ledongthuc/pdf.
type LedongthucReader struct{}

// PageCount parses the cross-reference table and page tree.
func (LedongthucReader) PageCount(data []byte) (n int, err error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty document", ErrDocumentFormat)
	}
	// The parser panics on some truncated inputs.
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrDocumentFormat, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDocumentFormat, err)
	}
	return r.NumPage(), nil
}

func init() {
	// pdfcpu otherwise writes its config under the user config dir, which is
	// read-only on Lambda.
	api.DisableConfigDir()
}

// PDFCPUReader counts pages with github.com/pdfcpu/pdfcpu after validation.
type PDFCPUReader struct{}

// PageCount reads and validates the document before counting.
func (PDFCPUReader) PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty document", ErrDocumentFormat)
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDocumentFormat, err)
	}
	return n, nil
}

package fmla_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmla-backend/internal/fmla"
	"fmla-backend/internal/llm"
	"fmla-backend/internal/pdfmeta"
	"fmla-backend/internal/pdfmeta/pdftest"
	"fmla-backend/internal/shared/telemetry"
)

// scriptedExtractor returns a fixed reply and records every call.
type scriptedExtractor struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	docs   []llm.Document
	prompt string
}

func (s *scriptedExtractor) Extract(ctx context.Context, doc llm.Document, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.docs = append(s.docs, doc)
	s.prompt = prompt
	return s.reply, s.err
}

func (s *scriptedExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func setupRouter(t *testing.T, ext llm.Extractor, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	restore := telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(restore)

	svc := &fmla.Service{
		Pages:     pdfmeta.LedongthucReader{},
		LLM:       ext,
		Sanitizer: &fmla.Sanitizer{},
		Prompt:    "extract the form",
	}
	router := gin.New()
	fmla.NewHandler(svc, maxUpload).RegisterRoutes(router.Group("/api"))
	return router
}

func multipartRequest(t *testing.T, field, fileName string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		fw, err := writer.CreateFormFile(field, fileName)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file here"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-fmla", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload), resp.Body.String())
	return payload
}

func TestProcessMissingFileReturns400(t *testing.T) {
	ext := &scriptedExtractor{reply: "{}"}
	router := setupRouter(t, ext, 0)

	requests := map[string]*http.Request{
		"other field only": multipartRequest(t, "", "", nil),
		"wrong field name": multipartRequest(t, "document", "form.pdf", pdftest.Build(1)),
		"not multipart":    httptest.NewRequest(http.MethodPost, "/api/process-fmla", strings.NewReader(`{"file":"x"}`)),
	}

	for name, req := range requests {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code, name)
		assert.JSONEq(t, `{"error":"No file uploaded"}`, resp.Body.String(), name)
	}
	assert.Equal(t, 0, ext.callCount(), "extractor must not be invoked without a file")
}

func TestProcessSuccessEnvelope(t *testing.T) {
	ext := &scriptedExtractor{reply: "```json\n" + `{"employeeName":"Jane Doe","leaveType":"intermittent","isFormSigned":true,"complianceFlags":["a","b"]}` + "\n```"}
	router := setupRouter(t, ext, 0)
	pdf := pdftest.Build(3)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "cert.pdf", pdf))

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["success"])
	assert.NotContains(t, payload, "error")

	data := payload["data"].(map[string]any)
	assert.Equal(t, "Jane Doe", data["employeeName"])
	assert.Equal(t, "intermittent", data["leaveType"])
	assert.Equal(t, true, data["isFormSigned"])
	assert.Equal(t, []any{"a", "b"}, data["complianceFlags"])

	meta := payload["metadata"].(map[string]any)
	assert.Equal(t, "cert.pdf", meta["fileName"])
	assert.Equal(t, float64(len(pdf)), meta["fileSize"])
	assert.Equal(t, float64(3), meta["pageCount"])

	require.Equal(t, 1, ext.callCount())
	assert.Equal(t, "application/pdf", ext.docs[0].MediaType)
	assert.Equal(t, "extract the form", ext.prompt)
}

func TestProcessInvalidJSONHidesRawReply(t *testing.T) {
	raw := "I'm sorry, this does not look like an FMLA form. SECRET-PROMPT-DETAIL"
	router := setupRouter(t, &scriptedExtractor{reply: raw}, 0)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "cert.pdf", pdftest.Build(1)))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"AI returned invalid JSON"}`, resp.Body.String())
	assert.NotContains(t, resp.Body.String(), "SECRET-PROMPT-DETAIL")
}

func TestProcessExternalFailureReturns500WithoutMetadata(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	ext := &scriptedExtractor{err: errors.Join(llm.ErrExternalService, netErr)}
	router := setupRouter(t, ext, 0)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "cert.pdf", pdftest.Build(2)))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	payload := decodeBody(t, resp)
	assert.Contains(t, payload["error"], "connection refused")
	assert.NotContains(t, payload, "metadata")
	assert.NotContains(t, payload, "success")
	assert.Equal(t, 1, ext.callCount(), "no retries")
}

func TestProcessUnreadablePDFReturns500(t *testing.T) {
	ext := &scriptedExtractor{reply: "{}"}
	router := setupRouter(t, ext, 0)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "notes.pdf", []byte("plain text, not a pdf")))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	payload := decodeBody(t, resp)
	assert.Contains(t, payload["error"], "failed to read PDF")
	assert.Equal(t, 0, ext.callCount())
}

func TestProcessEmptyReplyIsMalformed(t *testing.T) {
	router := setupRouter(t, &scriptedExtractor{reply: ""}, 0)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "cert.pdf", pdftest.Build(1)))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"AI returned invalid JSON"}`, resp.Body.String())
}

func TestProcessRejectsOversizedUpload(t *testing.T) {
	ext := &scriptedExtractor{reply: "{}"}
	router := setupRouter(t, ext, 1024)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "file", "big.pdf", bytes.Repeat([]byte("x"), 64<<10)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.JSONEq(t, `{"error":"File too large"}`, resp.Body.String())
	assert.Equal(t, 0, ext.callCount())
}

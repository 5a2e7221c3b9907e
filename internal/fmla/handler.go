package fmla

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fmla-backend/internal/shared/server/respond"
)

const (
	defaultMaxUploadSize = 10 << 20 // 10MB
	msgNoFile            = "No file uploaded"
	msgFileTooLarge      = "File too large"
	msgProcessFailed     = "Failed to process PDF"
)

// Handler wires the extraction endpoint to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the extraction route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process-fmla", h.process)
}

func (h *Handler) process(c *gin.Context) {
	setTransition(c, "idle->"+string(StageValidating))
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		setTransition(c, string(StageValidating)+"->failure")
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", msgFileTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", msgNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		setTransition(c, string(StageValidating)+"->failure")
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgProcessFailed)
		return
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		setTransition(c, string(StageValidating)+"->failure")
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgProcessFailed)
		return
	}
	if data == nil {
		data = []byte{}
	}

	c.Set("fileName", fileHeader.Filename)
	c.Set("fileSize", fileHeader.Size)

	res, err := h.Svc.Process(c.Request.Context(), Upload{
		FileName:  fileHeader.Filename,
		Size:      fileHeader.Size,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Data:      data,
	})
	if err != nil {
		stage := StageValidating
		var se *StageError
		if errors.As(err, &se) {
			stage = se.Stage
		}
		setTransition(c, string(stage)+"->failure")

		switch {
		case errors.Is(err, ErrMalformedExtraction):
			respond.Error(c, http.StatusInternalServerError, "malformed_extraction", ErrMalformedExtraction.Error())
		case errors.Is(err, ErrInputValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", msgNoFile)
		default:
			msg := strings.TrimSpace(err.Error())
			if msg == "" {
				msg = msgProcessFailed
			}
			respond.Error(c, http.StatusInternalServerError, errorCode(stage), msg)
		}
		return
	}

	setTransition(c, string(StageSanitizing)+"->success")
	respond.OK(c, SuccessEnvelope{
		Success:  true,
		Data:     res.Data,
		Metadata: res.Metadata,
	})
}

func setTransition(c *gin.Context, transition string) {
	c.Set("statusTransition", transition)
}

func errorCode(stage Stage) string {
	switch stage {
	case StageReadingMetadata:
		return "document_format_error"
	case StageExtracting:
		return "external_service_error"
	default:
		return "internal_error"
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

package respond

import (
	"github.com/gin-gonic/gin"

	"fmla-backend/internal/shared/telemetry"
)

// ErrorResponse is the failure envelope returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure and aborts with {"error": message}. code is a
// stable machine-readable tag kept in logs only.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if transition := c.GetString("statusTransition"); transition != "" {
		fields["status_transition"] = transition
	}
	telemetry.Error("http.error", fields)

	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

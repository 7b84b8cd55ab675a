package respond

import (
	"github.com/gin-gonic/gin"

	"healthscan-backend/internal/shared/telemetry"
)

// ErrorBody is the failure envelope: a short machine-oriented label plus a
// longer human-readable details string.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details string      `json:"details"`
	Meta    interface{} `json:"meta,omitempty"`
}

// Error sends a standardized failure envelope and logs it.
func Error(c *gin.Context, status int, label, details string, meta interface{}) {
	fields := map[string]any{
		"status":     status,
		"error":      label,
		"details":    details,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if wallet := c.GetString("walletAddress"); wallet != "" {
		fields["wallet"] = wallet
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorBody{
		Error:   label,
		Details: details,
		Meta:    meta,
	})
}

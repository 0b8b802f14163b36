package logger

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var sensitiveHeaders = map[string]bool{
	"Authorization": true,
	"X-Admin-Token": true,
	"Cookie":        true,
}

// LogHTTPError logs a request-scoped error with the usual HTTP metadata.
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	requestID, _ := c.Get("request_id")

	GetLogger().Errorw(message,
		"error", err,
		"status_code", statusCode,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"request_id", requestID,
		"headers", filterSensitiveHeaders(c.Request.Header),
	)
}

// filterSensitiveHeaders drops credential-bearing headers before logging.
func filterSensitiveHeaders(headers http.Header) map[string][]string {
	filtered := make(map[string][]string, len(headers))
	for k, v := range headers {
		if sensitiveHeaders[k] {
			filtered[k] = []string{"[REDACTED]"}
			continue
		}
		filtered[k] = v
	}
	return filtered
}

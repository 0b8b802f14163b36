package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
)

// AdminTokenHeader carries the shared admin secret on mutating requests.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth gates mutating requests behind the shared admin token. Reads stay
// open so the ledger can be browsed without credentials. With no token
// configured, everything is open (local single-user mode).
func AdminAuth(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !TokenMatches(adminToken, c.GetHeader(AdminTokenHeader)) {
			log := logger.GetLogger()
			log.Warnw("Rejected unauthenticated mutation",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"client_ip", c.ClientIP(),
			)
			if err := c.Error(apperrors.AuthenticationFailed("Admin token required")); err != nil {
				log.Errorw("Failed to add auth error", "error", err)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// TokenMatches compares a presented token against the configured one in
// constant time.
func TokenMatches(configured, presented string) bool {
	if configured == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}

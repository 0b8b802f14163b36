package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/logger"
	"github.com/triptally/triptally-backend/middleware"
)

// AuthHandler validates the shared admin token for clients that want to check
// credentials up front instead of failing on their first mutation.
type AuthHandler struct {
	adminToken string
}

func NewAuthHandler(adminToken string) *AuthHandler {
	return &AuthHandler{adminToken: adminToken}
}

type loginRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginHandler checks a token presented in the request body.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	log := logger.GetLogger()
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if !middleware.TokenMatches(h.adminToken, req.Token) {
		_ = c.Error(apperrors.AuthenticationFailed("Invalid admin token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// VerifyHandler checks the token carried in the admin header.
func (h *AuthHandler) VerifyHandler(c *gin.Context) {
	if !middleware.TokenMatches(h.adminToken, c.GetHeader(middleware.AdminTokenHeader)) {
		_ = c.Error(apperrors.AuthenticationFailed("Invalid admin token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

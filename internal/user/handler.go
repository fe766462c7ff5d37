// Package user implements the token-based profile-auth path: a one-time
// login code is exchanged for a bearer token, which then gates access to
// the caller's own profile.
package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextUserID is the gin context key the auth middleware sets
const contextUserID = "user_id"

// Handler handles user HTTP requests
type Handler struct {
	repo   *Repository
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewHandler creates a new user handler
func NewHandler(repo *Repository, tokens *TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// VerifyLoginCode handles POST /api/auth/verify-code. A matching login code
// is cleared on use and exchanged for a bearer token.
func (h *Handler) VerifyLoginCode(c *gin.Context) {
	var req VerifyLoginCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "code is required"})
		return
	}

	u, err := h.repo.ConsumeLoginCode(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired code"})
			return
		}
		h.logger.Error("Failed to consume login code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("Failed to issue token", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Profile handles GET /api/profile, returning the authenticated user
func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetString(contextUserID)

	u, err := h.repo.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		h.logger.Error("Failed to load user", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// RequireToken validates the Authorization bearer token and injects the
// user id into the request context.
func RequireToken(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No token, authorization denied",
			})
			return
		}

		userID, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token is not valid",
			})
			return
		}

		c.Set(contextUserID, userID)
		c.Next()
	}
}

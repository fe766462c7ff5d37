package accesscode

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatecode/internal/session"
)

// SessionCookie is the name of the cookie carrying the session id
const SessionCookie = "session_id"

// Handler handles access code HTTP requests
type Handler struct {
	service       Service
	sessions      session.Manager
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler creates a new access code handler
func NewHandler(service Service, sessions session.Manager, secureCookies bool, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		sessions:      sessions,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// GenerateTestCode handles POST (and GET) /generate-test-code. It issues a
// code with no payment check. Test/debug entry point only; keep it off
// production deployments.
func (h *Handler) GenerateTestCode(c *gin.Context) {
	var req GenerateCodeRequest

	if c.Request.Method == http.MethodGet {
		req.Role = c.Query("role")
		if req.Role == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ac, err := h.service.Issue(c.Request.Context(), req.Role, "")
	if err != nil {
		h.logger.Error("Failed to issue test code", "role", req.Role, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate code"})
		return
	}

	c.JSON(http.StatusOK, GenerateCodeResponse{Code: ac.Code})
}

// VerifyCode handles GET /verify-code/:code. A valid code establishes a
// logged-in session carrying the code's role and sets the session cookie.
// Invalid, expired and consumed codes all get the same generic 400 so the
// endpoint cannot be used to probe which codes exist.
func (h *Handler) VerifyCode(c *gin.Context) {
	code := c.Param("code")

	ac, err := h.service.Verify(c.Request.Context(), code)
	if err != nil {
		if !errors.Is(err, ErrInvalidCode) {
			h.logger.Error("Failed to verify access code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to verify code"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code is invalid or expired"})
		return
	}

	sess, err := h.sessions.Establish(c.Request.Context(), ac.Role)
	if err != nil {
		h.logger.Error("Failed to establish session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return
	}

	c.SetCookie(
		SessionCookie,
		sess.ID,
		int(h.sessions.TTL().Seconds()),
		"/",
		"",
		h.secureCookies,
		true, // httpOnly
	)

	c.JSON(http.StatusOK, VerifyCodeResponse{
		Message: "Code is valid",
		Role:    ac.Role,
	})
}

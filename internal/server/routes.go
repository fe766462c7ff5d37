package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gatecode/internal/accesscode"
	"gatecode/internal/session"
	"gatecode/internal/user"
)

// RegisterRoutes builds the gin router with all endpoints and middleware
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	// Purchase flow
	r.POST("/create-payment", s.payments.CreatePayment)
	r.POST("/execute-payment", s.payments.ExecutePayment)

	// Test/debug issuance bypass, no payment check
	r.POST("/generate-test-code", s.codes.GenerateTestCode)
	r.GET("/generate-test-code", s.codes.GenerateTestCode)

	// Code redemption; both paths serve the same handler
	r.GET("/verify-code/:code", s.codes.VerifyCode)
	r.GET("/api/verify-code/:code", s.codes.VerifyCode)

	r.GET("/verify-session", s.verifySessionHandler)
	r.POST("/logout", s.logoutHandler)

	// Gated resource stand-in
	r.GET("/main", RequireSession(s.sessions, s.logger), s.mainHandler)

	// Profiles
	r.POST("/upload", s.profiles.Upload)
	r.GET("/api/profiles", s.profiles.List)

	// Token-based profile-auth path
	r.POST("/api/auth/verify-code", s.users.VerifyLoginCode)
	r.GET("/api/profile", user.RequireToken(s.tokens), s.users.Profile)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.health(c.Request.Context()))
}

// verifySessionHandler reports whether the caller holds a live session. A
// missing or expired session is a normal answer here, not an error.
func (s *Server) verifySessionHandler(c *gin.Context) {
	sessionID, err := c.Cookie(accesscode.SessionCookie)
	if err != nil {
		c.JSON(http.StatusOK, session.StatusResponse{LoggedIn: false})
		return
	}

	sess, err := s.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusOK, session.StatusResponse{LoggedIn: false})
		return
	}

	c.JSON(http.StatusOK, session.StatusResponse{
		LoggedIn: sess.LoggedIn,
		Role:     sess.Role,
	})
}

func (s *Server) logoutHandler(c *gin.Context) {
	sessionID, err := c.Cookie(accesscode.SessionCookie)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "already logged out"})
		return
	}

	if err := s.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		s.logger.Warn("Failed to delete session", "error", err)
	}

	c.SetCookie(accesscode.SessionCookie, "", -1, "/", "", s.cfg.SecureCookies, true)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (s *Server) mainHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to MainPage")
}

package profile

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new profile handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Upload handles POST /upload. It accepts a multipart form with profile
// fields and a profilePicture file, stores the picture in object storage and
// creates the profile record.
func (h *Handler) Upload(c *gin.Context) {
	age, err := strconv.Atoi(c.PostForm("age"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age must be a number"})
		return
	}

	p := &Profile{
		Name:      c.PostForm("name"),
		Age:       age,
		Gender:    c.PostForm("gender"),
		Bio:       c.PostForm("bio"),
		Interests: c.PostForm("interests"),
		Phone:     c.PostForm("phone"),
		City:      c.PostForm("city"),
		State:     c.PostForm("state"),
		Country:   c.PostForm("country"),
	}
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profilePicture file is required"})
		return
	}
	if fileHeader.Size > MaxPictureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile picture too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the profile"})
		return
	}
	defer file.Close()

	created, err := h.service.Create(
		c.Request.Context(),
		p,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage is not configured"})
			return
		}
		h.logger.Error("Failed to create profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while creating the profile"})
		return
	}

	c.JSON(http.StatusOK, CreateProfileResponse{
		Message: "Profile created successfully",
		Profile: created,
	})
}

// List handles GET /api/profiles
func (h *Handler) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

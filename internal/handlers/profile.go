package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/pkg/models"
)

type ProfileHandler struct {
	profiles services.ProfileServiceInterface
	logger   *logrus.Logger
}

func NewProfileHandler(profiles services.ProfileServiceInterface, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list profiles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req models.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to create profile")
		return
	}

	c.Header("Location", c.FullPath()+"/"+profile.ID.String())
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	var req models.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	if err := h.profiles.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, "Failed to delete profile")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetGenrePreference marks one genre as favorite, disliked or neutral.
func (h *ProfileHandler) SetGenrePreference(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	genreID := strings.TrimSpace(c.Param("genreId"))
	var req models.GenrePreferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.SetGenrePreference(c.Request.Context(), id, genreID, req.Preference)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to set genre preference")
		return
	}

	c.JSON(http.StatusOK, profile)
}

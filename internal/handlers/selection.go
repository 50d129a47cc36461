package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/pkg/models"
)

// SelectionHandler manages which profiles are watching tonight.
type SelectionHandler struct {
	profiles services.ProfileServiceInterface
	logger   *logrus.Logger
}

func NewSelectionHandler(profiles services.ProfileServiceInterface, logger *logrus.Logger) *SelectionHandler {
	return &SelectionHandler{
		profiles: profiles,
		logger:   logger,
	}
}

func (h *SelectionHandler) Get(c *gin.Context) {
	ids, err := h.profiles.Selection(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to get selection")
		return
	}
	respondSelection(c, ids)
}

func (h *SelectionHandler) Replace(c *gin.Context) {
	var req models.SelectionRequest
	if !bindJSON(c, &req) {
		return
	}

	ids, err := h.profiles.ReplaceSelection(c.Request.Context(), req.ProfileIDs)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to replace selection")
		return
	}
	respondSelection(c, ids)
}

func (h *SelectionHandler) Toggle(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}

	ids, err := h.profiles.ToggleSelection(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to toggle selection")
		return
	}
	respondSelection(c, ids)
}

func (h *SelectionHandler) Clear(c *gin.Context) {
	if err := h.profiles.ClearSelection(c.Request.Context()); err != nil {
		respondServiceError(c, h.logger, err, "Failed to clear selection")
		return
	}
	c.Status(http.StatusNoContent)
}

func respondSelection(c *gin.Context, ids []uuid.UUID) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	c.JSON(http.StatusOK, models.SelectionRequest{ProfileIDs: ids})
}

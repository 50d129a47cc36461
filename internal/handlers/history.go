package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/pkg/models"
)

type HistoryHandler struct {
	history services.HistoryServiceInterface
	logger  *logrus.Logger
}

func NewHistoryHandler(history services.HistoryServiceInterface, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// List returns watched movies, newest first, optionally for one year.
func (h *HistoryHandler) List(c *gin.Context) {
	year := 0
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY_PARAM", "Year must be a positive integer")
			return
		}
		year = parsed
	}

	movies, err := h.history.List(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"watched": movies,
		"count":   len(movies),
	})
}

func (h *HistoryHandler) MarkWatched(c *gin.Context) {
	var req models.WatchRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.history.MarkWatched(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to mark movie as watched")
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *HistoryHandler) Years(c *gin.Context) {
	years, err := h.history.Years(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to list history years")
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}

func (h *HistoryHandler) Summary(c *gin.Context) {
	summary, err := h.history.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to summarize history")
		return
	}

	c.JSON(http.StatusOK, summary)
}

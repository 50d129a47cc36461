package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/internal/store"
	"github.com/temcen/popcornpick/pkg/models"
)

const catalogUnavailableMessage = "The movie catalog is temporarily unavailable. Please try again later."

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// respondServiceError maps service errors onto the error envelope.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrEmptySelection):
		respondError(c, http.StatusUnprocessableEntity, "EMPTY_SELECTION", "Select at least one profile first")
	case errors.Is(err, services.ErrCatalogUnavailable):
		logger.WithError(err).Error(action)
		respondError(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", catalogUnavailableMessage)
	case errors.Is(err, services.ErrGenreConflict):
		respondError(c, http.StatusUnprocessableEntity, "GENRE_CONFLICT", err.Error())
	case errors.Is(err, services.ErrInvalidLanguage):
		respondError(c, http.StatusBadRequest, "INVALID_LANGUAGE", err.Error())
	case errors.Is(err, services.ErrInvalidProfile):
		respondError(c, http.StatusBadRequest, "INVALID_PROFILE", err.Error())
	case errors.Is(err, services.ErrInvalidMovie):
		respondError(c, http.StatusBadRequest, "INVALID_MOVIE", err.Error())
	case c.Request.Context().Err() != nil:
		// Client went away; nothing useful to send.
		logger.WithError(err).Debug(action)
		c.Status(499)
	default:
		logger.WithError(err).Error(action)
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func parseProfileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("profileId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_PROFILE_ID", "Invalid profile ID format")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST_BODY", "Invalid request body format")
		return false
	}
	return true
}

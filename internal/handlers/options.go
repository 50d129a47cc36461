package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temcen/popcornpick/pkg/models"
)

// Options serves the questionnaire and profile form option tables.
func Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"genres":         models.GenreOptions,
		"platforms":      models.PlatformOptions,
		"moods":          models.MoodOptions,
		"durations":      models.DurationOptions,
		"ratings":        models.RatingOptions,
		"certifications": models.CertificationOptions,
		"languages":      models.LanguageOptions,
	})
}

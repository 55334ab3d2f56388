package controllers

import (
	"errors"
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the controller logger
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// respondError maps a service error to its status code and APIError body
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var notFound *services.NotFoundError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Validation failed", map[string]interface{}{
			"field":   validation.Field,
			"message": validation.Message,
		}))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, models.NewAPIError(notFoundCode(notFound.Resource), notFound.Error()))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Resource not found"))
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Not allowed to access this resource"))
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, models.NewAPIError(models.ErrInvalidTransition, err.Error()))
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

func notFoundCode(resource string) string {
	switch resource {
	case "Order":
		return models.ErrOrderNotFound
	case models.KindBase.Label(), models.KindSauce.Label(), models.KindCheese.Label(), models.KindTopping.Label():
		return models.ErrIngredientNotFound
	}
	return models.ErrNotFound
}

// respondBindError reports a body that could not be decoded or bound
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body", map[string]interface{}{
		"error": err.Error(),
	}))
}

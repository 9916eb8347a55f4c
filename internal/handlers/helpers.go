package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/service"

	"github.com/gin-gonic/gin"
)

// currentActor pulls the user placed on the context by middleware.InjectUser.
func currentActor(c *gin.Context) (models.Actor, bool) {
	uVal, ok := c.Get("CurrentUser")
	if !ok {
		return models.Actor{}, false
	}
	user, ok := uVal.(models.User)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{
		UserID: strconv.FormatUint(uint64(user.ID), 10),
		Email:  user.Email,
		Name:   user.Name,
	}, true
}

// respondError maps service errors to HTTP responses. Store internals never
// reach the client; they go to the log.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed, please retry"})
	}
}

func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func respondNoActor(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

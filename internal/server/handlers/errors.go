package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/repository"
	"github.com/mamadbah2/buffalo/internal/service/buffalos"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

// respondError maps a service error onto a status code and JSON body.
// Anything unrecognised is treated as a record store failure.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *forms.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": repository.ErrNotFound.Error()})
	case errors.Is(err, forms.ErrNoDraft):
		c.JSON(http.StatusNotFound, gin.H{"error": forms.ErrNoDraft.Error()})
	case errors.Is(err, forms.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": forms.ErrSubmitInFlight.Error()})
	case errors.Is(err, forms.ErrRowIndex), errors.Is(err, forms.ErrLastRow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, buffalos.ErrIDSpaceExhausted):
		logger.Error("id generation failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error("record store failure", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "store unavailable"})
	}
}

func badBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

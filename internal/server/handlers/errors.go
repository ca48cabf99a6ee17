package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/service/dues"
	"github.com/mamadbah2/ridershift/internal/service/fees"
	"github.com/mamadbah2/ridershift/internal/service/riders"
	"github.com/mamadbah2/ridershift/internal/service/shifts"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shifts.ErrInvalidShift),
		errors.Is(err, dues.ErrInvalidDue),
		errors.Is(err, fees.ErrInvalidFees),
		errors.Is(err, riders.ErrInvalidAccount):
		return http.StatusBadRequest
	case errors.Is(err, riders.ErrInvalidCredentials),
		errors.Is(err, riders.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, shifts.ErrNotFound),
		errors.Is(err, dues.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shifts.ErrShiftClosed),
		errors.Is(err, shifts.ErrNothingToCollect),
		errors.Is(err, shifts.ErrConflict),
		errors.Is(err, riders.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

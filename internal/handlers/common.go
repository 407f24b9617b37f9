package handlers

import (
	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/auth"
	"github.com/dudedrops/dudes-api/internal/middleware"
	"github.com/dudedrops/dudes-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sendError is a helper function that combines logging and error response
// It logs the error with its kind and sends the JSON error body with the
// status mapped from that kind.
func sendError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	log := middleware.LogWithCorrelationID(c.Request.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("kind", string(kind)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if status >= 500 {
		log.Error("Request failed", fields...)
	} else {
		log.Info("Request rejected", fields...)
	}

	c.JSON(status, apperr.ToResponse(err))
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// bindJSON decodes the request body into dest.
func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "invalid request body")
	}
	return nil
}

// callerFrom builds the service caller from the wallet session.
func callerFrom(c *gin.Context) (services.Caller, error) {
	session, err := auth.SessionFromContext(c)
	if err != nil {
		return services.Caller{}, err
	}
	return services.Caller{UID: session.UID, Wallet: session.Wallet}, nil
}

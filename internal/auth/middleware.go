package auth

import (
	"strings"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "walletSession"

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// EnsureWalletSession is a middleware that resolves the bearer token into a
// wallet session and rejects the request when there is none.
// Sets the session on the context for handlers.
func EnsureWalletSession(resolver *SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolver.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			kind := apperr.KindOf(err)
			if kind != apperr.KindUnauthenticated {
				logger.Log.Error("Failed to resolve wallet session",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(apperr.HTTPStatus(kind), apperr.ToResponse(err))
			return
		}

		c.Set(sessionKey, session)
		c.Set("userID", session.UID)
		c.Next()
	}
}

// SessionFromContext returns the session set by EnsureWalletSession.
func SessionFromContext(c *gin.Context) (*WalletSession, error) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, ErrNoSessionInCtx
	}
	session, ok := v.(*WalletSession)
	if !ok {
		return nil, ErrNoSessionInCtx
	}
	return session, nil
}

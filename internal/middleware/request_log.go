package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLoggedBody caps how much of a request body is written to the debug log.
const maxLoggedBody = 4096

func shouldSkipLogging(path string) bool {
	return path == "/health" || path == "/healthz"
}

// getRequestBody reads the body and restores it for the handlers after us.
func getRequestBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	return bodyBytes, nil
}

// LogRequest writes each request with its body at debug level. Claim codes
// and addresses travel in bodies, so it is only mounted outside release mode.
func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkipLogging(c.Request.URL.Path) {
			c.Next()
			return
		}

		log := LogWithCorrelationID(c.Request.Context())
		bodyBytes, err := getRequestBody(c)
		if err != nil {
			log.Error("Failed to read request body", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.Next()
			return
		}
		if len(bodyBytes) > maxLoggedBody {
			bodyBytes = bodyBytes[:maxLoggedBody]
		}

		log.Debug("Request body",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("body", string(bodyBytes)),
		)

		c.Next()
	}
}

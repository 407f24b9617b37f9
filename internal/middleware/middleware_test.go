package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name                 string
		requestCorrelationID string
		expectNewID          bool
	}{
		{
			name:        "New ID generated when header not present",
			expectNewID: true,
		},
		{
			name:                 "Existing ID preserved when header present",
			requestCorrelationID: "test-correlation-id-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CorrelationIDMiddleware())
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"correlation_id": GetCorrelationID(c),
					"from_context":   CorrelationIDFromContext(c.Request.Context()),
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestCorrelationID != "" {
				req.Header.Set(CorrelationIDHeader, tt.requestCorrelationID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			header := w.Header().Get(CorrelationIDHeader)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			assert.Equal(t, header, body["correlation_id"])
			assert.Equal(t, header, body["from_context"])
			if tt.expectNewID {
				assert.Len(t, header, 36)
			} else {
				assert.Equal(t, tt.requestCorrelationID, header)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rl *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(rl.Middleware())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}
	do := func(router *gin.Engine, path, ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", ip)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allows requests within rate limit", func(t *testing.T) {
		rl := NewRateLimiter(10, 20)
		defer rl.Stop()
		router := newRouter(rl)

		for i := 0; i < 10; i++ {
			w := do(router, "/test", "192.168.1.1")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		rl := NewRateLimiter(1, 2)
		defer rl.Stop()
		router := newRouter(rl)

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = do(router, "/test", "192.168.1.2")
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Equal(t, "1", last.Header().Get("Retry-After"))
		var resp apperr.Response
		require.NoError(t, json.Unmarshal(last.Body.Bytes(), &resp))
		assert.Equal(t, apperr.KindResourceExhausted, resp.Error.Kind)
	})

	t.Run("different clients have separate limits", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()
		router := newRouter(rl)

		assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.3").Code)
		assert.Equal(t, http.StatusOK, do(router, "/test", "192.168.1.4").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(router, "/test", "192.168.1.3").Code)
	})

	t.Run("health checks are never limited", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()
		router := newRouter(rl)

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, do(router, "/health", "192.168.1.5").Code)
		}
	})

	t.Run("idle limiters are evicted", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()
		rl.getLimiter("ip:10.0.0.1")

		require.True(t, rl.tracked("ip:10.0.0.1"))

		rl.evictIdle(time.Now().Add(rl.idleTimeout + time.Second))
		assert.False(t, rl.tracked("ip:10.0.0.1"))
	})

	t.Run("first forwarded hop identifies the client", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		defer rl.Stop()
		router := newRouter(rl)

		assert.Equal(t, http.StatusOK, do(router, "/test", "203.0.113.7, 10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(router, "/test", "203.0.113.7, 10.0.0.2").Code)
	})
}

func TestLogRequest_PreservesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LogRequest())
	router.POST("/echo", func(c *gin.Context) {
		raw, err := c.GetRawData()
		require.NoError(t, err)
		c.String(http.StatusOK, string(raw))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"code":"abc"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"code":"abc"}`, w.Body.String())
}

func (rl *RateLimiter) tracked(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, ok := rl.buckets[key]
	return ok
}

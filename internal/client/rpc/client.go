package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/logger"
	"go.uber.org/zap"
)

// ClientOption represents a function that can modify the client
type ClientOption func(*Client)

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	tolerateIndexLag bool
	decode           func(body []byte) error
}

// TolerateIndexLag makes a not-found outcome retryable for this call. Use it
// for reads that may race a recent write on the upstream index.
func TolerateIndexLag() CallOption {
	return func(o *callOptions) {
		o.tolerateIndexLag = true
	}
}

// withDecoder replaces the default JSON decode of the response body. It runs
// inside the attempt, so its error is classified and retried like any other.
func withDecoder(decode func(body []byte) error) CallOption {
	return func(o *callOptions) {
		o.decode = decode
	}
}

// UpstreamError describes a non-2xx response.
type UpstreamError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("POST %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client calls a JSON over HTTP upstream with per-attempt deadlines and
// classified retries.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	attemptTimeout time.Duration
	policy         RetryPolicy
	logger         *zap.Logger
	nextID         atomic.Uint64
}

// NewClient creates a new Client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{},
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		attemptTimeout: constants.DefaultRPCAttemptTimeout,
		policy:         DefaultRetryPolicy(),
		logger:         logger.Log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithDefaultHeader adds a default header to all requests
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithAttemptTimeout bounds every individual attempt.
func WithAttemptTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.attemptTimeout = timeout
	}
}

// WithRetryPolicy sets the retry policy
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// Call posts payload to endpoint and decodes the JSON response into out.
// label names the call in logs. Exhausted retries fail with Unavailable,
// except an index-lag not-found which stays NotFound.
func (c *Client) Call(ctx context.Context, endpoint string, payload interface{}, label string, out interface{}, opts ...CallOption) error {
	o := callOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.decode == nil {
		o.decode = func(body []byte) error {
			if out == nil || len(body) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return apperr.Wrap(err, apperr.KindUnknown, "decode upstream response")
			}
			return nil
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "encode request payload")
	}
	url := c.resolve(endpoint)

	attempt := 0
	permanent := false
	var lastErr error
	operation := func() error {
		attempt++
		err := c.do(ctx, url, body, o.decode)
		if err == nil {
			return nil
		}
		lastErr = err
		kind := apperr.KindOf(err)
		retryable := c.policy.retryable(kind) || (kind == apperr.KindNotFound && o.tolerateIndexLag)
		if !retryable || ctx.Err() != nil {
			permanent = true
			return backoff.Permanent(err)
		}
		c.logger.Warn("Upstream call failed, will retry",
			zap.String("label", label),
			zap.Int("attempt", attempt),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return err
	}

	err = backoff.Retry(operation, backoff.WithContext(c.policy.backOff(), ctx))
	if err == nil {
		return nil
	}

	if permanent {
		return err
	}
	if lastErr == nil || (ctx.Err() != nil && !errors.Is(err, lastErr)) {
		return apperr.Wrap(err, apperr.KindOf(err), fmt.Sprintf("%s interrupted", label))
	}

	c.logger.Error("Upstream call exhausted retries",
		zap.String("label", label),
		zap.Int("attempts", attempt),
		zap.Error(lastErr),
	)
	if apperr.KindOf(lastErr) == apperr.KindNotFound {
		return lastErr
	}
	return apperr.Wrap(lastErr, apperr.KindUnavailable, fmt.Sprintf("%s failed after %d attempts", label, attempt))
}

// do runs a single attempt under its own deadline.
func (c *Client) do(ctx context.Context, url string, body []byte, decode func([]byte) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "build upstream request")
	}
	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(ctx, attemptCtx, err)
	}

	if resp.StatusCode >= 400 {
		return classifyStatus(&UpstreamError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       truncate(string(respBody), 512),
		})
	}

	return decode(respBody)
}

func (c *Client) resolve(endpoint string) string {
	if c.baseURL == "" || strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if endpoint == "" {
		return c.baseURL
	}
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}

func classifyTransportError(parent, attemptCtx context.Context, err error) error {
	switch {
	case parent.Err() != nil:
		return apperr.Wrap(err, apperr.KindOf(parent.Err()), "request context ended")
	case errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
		return apperr.Wrap(err, apperr.KindDeadlineExceeded, "upstream call exceeded its deadline")
	}
	return apperr.Wrap(err, apperr.KindUnavailable, "upstream unreachable")
}

func classifyStatus(err *UpstreamError) error {
	switch {
	case err.StatusCode == http.StatusTooManyRequests:
		return apperr.Wrap(err, apperr.KindResourceExhausted, "upstream rate limited")
	case err.StatusCode >= 500:
		return apperr.Wrap(err, apperr.KindUnavailable, "upstream server error")
	case err.StatusCode == http.StatusNotFound:
		return apperr.Wrap(err, apperr.KindNotFound, "upstream resource not found")
	case err.StatusCode == http.StatusUnauthorized:
		return apperr.Wrap(err, apperr.KindUnauthenticated, "upstream rejected credentials")
	case err.StatusCode == http.StatusForbidden:
		return apperr.Wrap(err, apperr.KindPermissionDenied, "upstream denied access")
	}
	return apperr.Wrap(err, apperr.KindInvalidArgument, "upstream rejected request")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

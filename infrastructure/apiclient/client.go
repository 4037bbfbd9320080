// Package apiclient is the authenticated HTTP client for the companion
// backend. It implements the application ports over the JSON envelope the
// server speaks: every response carries a top-level success flag.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "nexusboard/pkg/errors"
)

// Client talks to one backend instance. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

// Option customizes a client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithToken seeds the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client against a base URL like "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after login. An empty token
// degrades requests to anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the common response frame.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// postJSON sends a JSON body and decodes the response into out, which must
// embed the envelope fields.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("encode request: %v", err))
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

// getJSON fetches a path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// deleteJSON issues a DELETE and decodes the response into out.
func (c *Client) deleteJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

// postMultipart uploads files plus form fields and decodes the response.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, content []byte, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return apperrors.NewInternalError(fmt.Sprintf("encode form field: %v", err))
		}
	}
	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("encode form file: %v", err))
	}
	if _, err := part.Write(content); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("encode form file: %v", err))
	}
	if err := writer.Close(); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("encode form: %v", err))
	}
	return c.do(ctx, http.MethodPost, path, writer.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("build request: %v", err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("request to %s failed", path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("read response from %s", path), err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return statusError(resp.StatusCode, path, http.StatusText(resp.StatusCode))
		}
		return apperrors.NewExternalError("backend", fmt.Errorf("malformed response from %s", path))
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return statusError(resp.StatusCode, path, msg)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.NewExternalError("backend", fmt.Errorf("decode response from %s: %w", path, err))
		}
	}

	c.logger.Debug("request complete", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
	return nil
}

func statusError(status int, path, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(msg)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(fmt.Sprintf("resource at %s", path))
	case http.StatusBadRequest:
		return apperrors.NewValidationError(msg)
	default:
		return apperrors.NewExternalError("backend", fmt.Errorf("%s: %s", path, msg))
	}
}

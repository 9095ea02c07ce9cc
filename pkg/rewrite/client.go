package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cvrewrite/pkg/form"
)

const (
	// RequestIDHeader carries the per-submission identifier.
	RequestIDHeader = "X-Request-ID"

	defaultMaxBody = 8 << 20
)

// Client posts form payloads to the rewrite endpoint.
type Client struct {
	base       *url.URL
	endpoint   string
	httpClient *http.Client
	headers    http.Header
	logger     *slog.Logger
	requestID  func() string
	maxBody    int64
}

// New builds a client for the server at baseURL. Relative endpoints are
// resolved against it.
func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("rewrite: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rewrite: base url %q must be absolute", baseURL)
	}

	c := &Client{
		base:       base,
		endpoint:   form.DefaultEndpoint,
		httpClient: &http.Client{},
		headers:    make(http.Header),
		logger:     slog.Default(),
		requestID:  uuid.NewString,
		maxBody:    defaultMaxBody,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// URL returns the absolute endpoint URL.
func (c *Client) URL() string {
	ref, err := url.Parse(c.endpoint)
	if err != nil {
		return c.base.String()
	}
	return c.base.ResolveReference(ref).String()
}

type successBody struct {
	RewrittenCV json.RawMessage `json:"rewritten_cv"`
}

// Rewrite performs a single POST of payload and returns the rewritten text.
// Failures are ErrTransport, *StatusError or ErrMalformedResponse. There are
// no retries.
func (c *Client) Rewrite(ctx context.Context, payload form.Payload) (string, error) {
	if payload == nil {
		payload = form.Payload{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("rewrite: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("rewrite: build request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With("request_id", requestID)
	logger.Debug("rewrite request", "url", req.URL.String(), "fields", payload.Keys())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("rewrite request failed", "error", err)
		return "", transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		logger.Error("rewrite read body failed", "status", resp.StatusCode, "error", err)
		return "", transportError(err)
	}
	logger.Info("rewrite response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, raw),
		}
	}

	var decoded successBody
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", malformedError("response is not valid JSON", err)
	}
	if len(decoded.RewrittenCV) == 0 || bytes.Equal(bytes.TrimSpace(decoded.RewrittenCV), []byte("null")) {
		return "", malformedError("response is missing rewritten_cv", nil)
	}
	var text string
	if err := json.Unmarshal(decoded.RewrittenCV, &text); err != nil {
		return "", malformedError("rewritten_cv is not a string", err)
	}
	return text, nil
}

func statusMessage(status int, body []byte) string {
	generic := fmt.Sprintf("HTTP error! Status: %d. Could not parse error response.", status)

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil || decoded == nil {
		return generic
	}
	if obj, ok := decoded.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok && msg != "" {
			return msg
		}
	}
	compact, err := json.Marshal(decoded)
	if err != nil {
		return generic
	}
	return string(compact)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// Package submit posts wizard payloads to the intake REST endpoints.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotJSON is returned by Response.RequireJSON for a success status whose
// body does not parse as JSON.
var ErrNotJSON = errors.New("endpoint returned a non-JSON body")

// StatusError is a non-2xx reply from the endpoint.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Response is a 2xx reply.
type Response struct {
	Status int
	Body   []byte
	// ID is the "id" field of a JSON body, if any.
	ID string
	// JSON reports whether Body parsed as JSON.
	JSON bool
}

// RequireJSON fails when the body was not JSON.
func (r *Response) RequireJSON() error {
	if !r.JSON {
		return fmt.Errorf("%w (status %d)", ErrNotJSON, r.Status)
	}
	return nil
}

// Client sends one JSON document per call. It never retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	timeout    time.Duration
	textErrors bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTextErrorBodies makes a non-JSON error body the error message instead
// of the generic status text.
func WithTextErrorBodies() Option {
	return func(c *Client) { c.textErrors = true }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Post marshals payload and sends it. A non-2xx status is returned as a
// *StatusError.
func (c *Client) Post(ctx context.Context, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", c.endpoint))
	log.Debug("posting payload", zap.Int("bytes", len(body)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return nil, fmt.Errorf("posting to %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(raw)))

	isJSON := json.Valid(raw)
	id, message := fields(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("Salesforce error (%d)", resp.StatusCode)
		switch {
		case message != "":
			msg = message
		case c.textErrors && strings.TrimSpace(string(raw)) != "":
			msg = string(raw)
		}
		log.Warn("endpoint rejected payload", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, &StatusError{Status: resp.StatusCode, Message: msg}
	}

	return &Response{Status: resp.StatusCode, Body: raw, ID: id, JSON: isJSON}, nil
}

// fields pulls "id" and "message" out of a JSON object body. Numeric ids are
// rendered without a fraction.
func fields(raw []byte) (id, message string) {
	var obj map[string]any
	if json.Unmarshal(raw, &obj) != nil {
		return "", ""
	}
	switch v := obj["id"].(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatFloat(v, 'f', -1, 64)
	}
	message, _ = obj["message"].(string)
	return id, message
}

// Failure is a failed post together with the text shown to the user.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Fail wraps err for display. The endpoint's own message is shown when it
// sent one. Transport failures show fallback followed by their cause; a
// non-JSON body shows fallback alone.
func Fail(err error, fallback string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return &Failure{Message: se.Message, Err: err}
	}
	if errors.Is(err, ErrNotJSON) {
		return &Failure{Message: fallback, Err: err}
	}

	cause := err.Error()
	var ue *url.Error
	if errors.As(err, &ue) {
		cause = ue.Err.Error()
	}
	if cause == "" {
		return &Failure{Message: fallback, Err: err}
	}
	return &Failure{Message: fmt.Sprintf("%s (%s)", fallback, cause), Err: err}
}

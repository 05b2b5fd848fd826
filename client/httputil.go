package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/etnz/navdash"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contains http utils to deal with remote services

// RequestIDHeader carries a unique id per request, to match client and server logs.
const RequestIDHeader = "X-Request-ID"

// tracing is a RoundTripper tagging every request with an id and logging it.
type tracing struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *tracing) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.String("request_id", id),
			zap.Error(err))
		return nil, err
	}
	t.logger.Debug("http request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", id))
	return resp, nil
}

// readAll reads and closes the response body.
func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}

// isOK reports whether status is a 2xx status.
func isOK(status int) bool { return status >= 200 && status < 300 }

// serverMessage extracts the "message" field of a JSON error body, if any. Numbers and
// booleans are kept as written; objects, arrays and null give no message.
func serverMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Message, &text); err == nil {
		return text
	}
	switch raw := string(payload.Message); raw[0] {
	case '{', '[', 'n':
		return ""
	default:
		return raw
	}
}

// getJSON performs an HTTP GET request and unmarshals the JSON response into data.
func (c *Client) getJSON(ctx context.Context, op, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &navdash.TransportError{Op: op, Err: err}
	}
	body, err := readAll(resp)
	if err != nil {
		return &navdash.TransportError{Op: op, Err: err}
	}
	if !isOK(resp.StatusCode) {
		return &navdash.RejectedError{Op: op, Status: resp.StatusCode, Message: serverMessage(body)}
	}
	if err := json.Unmarshal(body, data); err != nil {
		return &navdash.TransportError{Op: op, Err: fmt.Errorf("cannot decode response: %w", err)}
	}
	return nil
}

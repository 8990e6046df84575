package kiwoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single round trip when no *http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Response is the raw result of one POST: status, headers and the full body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one JSON POST and returns the raw response.
//
// Implementations must not retry and must not interpret the status code;
// a non-nil error means the exchange itself failed (DNS, refused, timeout, cancellation).
type Transport interface {
	Post(ctx context.Context, url string, headers map[string]string, body any) (*Response, error)
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps hc; a nil hc gets a dedicated client with DefaultTimeout.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{client: hc}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

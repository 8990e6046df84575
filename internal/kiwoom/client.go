package kiwoom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/kiwoompulse/internal/logger"
	"github.com/rs/zerolog"
)

const (
	// DefaultHost is the production REST endpoint.
	DefaultHost = "https://api.kiwoom.com"
	// MockHost is the broker's paper-trading endpoint.
	MockHost = "https://mockapi.kiwoom.com"

	tokenPath   = "/oauth2/token"
	rankingPath = "/api/dostk/rkinfo"

	contentTypeJSON = "application/json;charset=UTF-8"
	grantType       = "client_credentials"

	// APIIDTopTradeValue selects the "top symbols by trade value" ranking.
	APIIDTopTradeValue = "ka10032"
	// TopTradeValueListKey is the response field of the ka10032 list.
	TopTradeValueListKey = "trde_prica_upper"
	// TopTradeValueLimit is the number of rows kept by TopTradeValueSymbols.
	TopTradeValueLimit = 20
)

// Client talks to the broker REST API.
//
// It holds only immutable state (host, credentials, transport), so one Client
// may be shared between goroutines as long as its Transport is safe for that,
// which HTTPTransport is.
type Client struct {
	host      string
	creds     Credentials
	transport Transport
	log       zerolog.Logger
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithHost overrides DefaultHost.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = strings.TrimRight(host, "/")
		}
	}
}

// WithTransport substitutes the transport, typically with a test double.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient builds the default transport on top of hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(hc)
	}
}

// WithTimeout builds the default transport with the given round-trip timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.transport = NewHTTPTransport(&http.Client{Timeout: d})
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the given credentials.
//
// Every Client gets its own transport unless WithTransport/WithHTTPClient is given;
// no transport instance is shared between clients implicitly.
func NewClient(appKey, secretKey string, opts ...Option) *Client {
	c := &Client{
		host:  DefaultHost,
		creds: Credentials{AppKey: appKey, SecretKey: secretKey},
		log:   logger.Component("kiwoom"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}
	return c
}

// Host returns the base URL requests are sent to.
func (c *Client) Host() string {
	return c.host
}

// tokenRequest is the body of POST /oauth2/token.
type tokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	SecretKey string `json:"secretkey"`
}

// tokenResponse is the subset of the token answer the client reads.
// Only token must be a string; return_code/return_msg are informational and read leniently.
type tokenResponse struct {
	Token      json.RawMessage `json:"token"`
	ReturnCode json.RawMessage `json:"return_code"`
	ReturnMsg  json.RawMessage `json:"return_msg"`
}

// AccessToken exchanges the credentials for a bearer token.
//
// Behavior:
//   - One attempt, no caching: every call issues a new token request.
//   - Non-2xx answers become *APIError (401/403 unwrap to ErrUnauthorized).
//   - Only "token" is decoded strictly; return_code/return_msg may be numbers or strings.
//
// Returns:
//   - string: the bearer token.
//   - error: ErrMissingToken when the answer carries no non-empty token,
//     ErrMalformedResponse when the body is not a JSON object or token is not a string.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	// ─── Request ──────────────────────────────────
	headers := map[string]string{
		"Content-Type": contentTypeJSON,
	}
	body := tokenRequest{
		GrantType: grantType,
		AppKey:    c.creds.AppKey,
		SecretKey: c.creds.SecretKey,
	}

	start := time.Now()
	resp, err := c.transport.Post(ctx, c.host+tokenPath, headers, body)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	c.log.Debug().Str("path", tokenPath).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("token response")

	// ─── Decode ───────────────────────────────────
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrMalformedResponse, err)
	}

	var token string
	if !isNull(tr.Token) {
		if err := json.Unmarshal(tr.Token, &token); err != nil {
			return "", fmt.Errorf("%w: token is not a string: %v", ErrMalformedResponse, err)
		}
	}
	if token == "" {
		if msg := rawText(tr.ReturnMsg); msg != nil && *msg != "" {
			return "", fmt.Errorf("%w (return_code=%d: %s)", ErrMissingToken, rawInt(tr.ReturnCode), *msg)
		}
		return "", ErrMissingToken
	}
	return token, nil
}

// TopTradeValueSymbols returns the first 20 symbols ranked by trade value (ka10032),
// in the order the broker sent them.
//
// filters is sent as the request body without validation. A response without the
// trde_prica_upper list yields an empty page, not an error.
func (c *Client) TopTradeValueSymbols(ctx context.Context, token string, filters Filters, page Continuation) (*RankingPage, error) {
	return c.Rank(ctx, token, RankingQuery{
		APIID:   APIIDTopTradeValue,
		ListKey: TopTradeValueListKey,
		Limit:   TopTradeValueLimit,
		Filters: filters,
		Page:    page,
	})
}

// Rank performs one ranking request and maps the list under q.ListKey.
//
// Parameters:
//   - token: bearer token from AccessToken. Empty is rejected before any request is sent.
//   - q: api-id, list key, row limit, body filters and continuation headers.
//
// Behavior:
//   - A missing or null list yields an empty page.
//   - Rows keep the broker's order; at most q.Limit are mapped when q.Limit > 0.
//   - A sub-field of unexpected JSON type keeps its literal text instead of failing the list.
func (c *Client) Rank(ctx context.Context, token string, q RankingQuery) (*RankingPage, error) {
	// ─── Validate ─────────────────────────────────
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if q.APIID == "" || q.ListKey == "" {
		return nil, fmt.Errorf("api id and list key are required")
	}

	// ─── Request ──────────────────────────────────
	headers := map[string]string{
		"Content-Type":  contentTypeJSON,
		"authorization": "Bearer " + token,
		"cont-yn":       q.Page.contYn(),
		"next-key":      q.Page.NextKey,
		"api-id":        q.APIID,
	}
	filters := q.Filters
	if filters == nil {
		filters = Filters{}
	}

	start := time.Now()
	resp, err := c.transport.Post(ctx, c.host+rankingPath, headers, filters)
	if err != nil {
		return nil, fmt.Errorf("request ranking %s: %w", q.APIID, err)
	}
	c.log.Debug().Str("path", rankingPath).Str("api_id", q.APIID).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("ranking response")

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	// ─── Decode and map ───────────────────────────
	items, err := decodeList(resp.Body, q.ListKey)
	if err != nil {
		return nil, err
	}

	n := len(items)
	if q.Limit > 0 && n > q.Limit {
		n = q.Limit
	}
	rows := make([]MarketDataRow, 0, n)
	for _, it := range items[:n] {
		rows = append(rows, it.toRow())
	}

	return &RankingPage{
		Rows:    rows,
		ContYn:  resp.Header.Get("cont-yn"),
		NextKey: resp.Header.Get("next-key"),
		APIID:   resp.Header.Get("api-id"),
	}, nil
}

// decodeList extracts the list stored under key. A missing or null key is an empty list.
func decodeList(body []byte, key string) ([]rankingItem, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode ranking response: %v", ErrMalformedResponse, err)
	}
	raw, ok := envelope[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var items []rankingItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, key, err)
	}
	return items, nil
}

// checkStatus turns a non-2xx answer into an *APIError.
func checkStatus(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		ReturnCode json.RawMessage `json:"return_code"`
		ReturnMsg  json.RawMessage `json:"return_msg"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		apiErr.ReturnCode = rawInt(body.ReturnCode)
		if msg := rawText(body.ReturnMsg); msg != nil {
			apiErr.Message = *msg
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(resp.Body))
	}
	return apiErr
}

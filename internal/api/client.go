// Package api implements the HTTP client for the remote order-management
// backend. Every response is normalized to the success/message envelope the
// backend uses; failures surface as *Error with the NeedsLogin flag set on
// authorization failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// User-facing fallback messages, in the backend's language.
const (
	msgNoConnection = "Tidak ada koneksi internet. Periksa jaringan Anda."
	msgSessionEnded = "Sesi Anda telah berakhir. Silakan login kembali."
	msgForbidden    = "Akses ditolak. Anda tidak memiliki izin."
	msgNotFound     = "Endpoint tidak ditemukan. Periksa konfigurasi API."
	msgServerError  = "Terjadi kesalahan pada server. Silakan coba lagi nanti."
	msgGeneric      = "Terjadi kesalahan. Silakan coba lagi."
)

// DefaultTimeout bounds every request when the config does not override it.
const DefaultTimeout = 15 * time.Second

// Error is the normalized failure shape of every backend call.
type Error struct {
	StatusCode int
	Message    string
	NeedsLogin bool
}

func (e *Error) Error() string {
	return e.Message
}

// TokenSource supplies the bearer credential for authenticated calls.
// An empty token means no session; the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client talks to the backend under a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryGet   *retryablehttp.Client
	tokens     TokenSource

	// onUnauthorized runs once per 401 before the error is returned,
	// wired to session teardown by the composition root.
	onUnauthorized func(ctx context.Context)
}

// NewClient creates a backend client. A zero timeout falls back to
// DefaultTimeout. Wire the token source and the unauthorized hook before
// sharing the client between goroutines.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Idempotent reads get a small transport-level retry budget; mutating
	// calls never retry automatically.
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient = &http.Client{Timeout: timeout}
	// Retry only transport failures and 429. Error statuses (403, 404,
	// 500) are surfaced to the user immediately, not retried.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		return resp != nil && resp.StatusCode == http.StatusTooManyRequests, nil
	}
	// Keep the final response when retries run out so the status-class
	// normalization below still applies.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryGet:   rc,
	}
}

// SetTokenSource wires the bearer credential supplier.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// OnUnauthorized registers the hook invoked when the backend rejects the
// session.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) authorize(ctx context.Context, h http.Header) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(ctx); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
}

// get performs an idempotent read through the retrying client.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(ctx, req.Header)

	resp, err := c.retryGet.Do(req)
	if err != nil && resp == nil {
		return &Error{Message: msgNoConnection}
	}
	return c.decode(ctx, resp, out)
}

// send performs a mutating JSON call through the plain client.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: msgNoConnection}
	}
	return c.decode(ctx, resp, out)
}

// decode normalizes the response into the envelope taxonomy and unmarshals
// the data block into out when the call succeeded.
func (c *Client) decode(ctx context.Context, resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: msgNoConnection}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		return c.statusError(ctx, resp.StatusCode, env.Message)
	}

	if decodeErr != nil {
		return &Error{StatusCode: resp.StatusCode, Message: msgGeneric}
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgGeneric
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, code int, serverMsg string) error {
	switch code {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		msg := serverMsg
		if msg == "" {
			msg = msgSessionEnded
		}
		return &Error{StatusCode: code, Message: msg, NeedsLogin: true}
	case http.StatusForbidden:
		if serverMsg == "" {
			serverMsg = msgForbidden
		}
	case http.StatusNotFound:
		// The backend's 404 body is not trusted; it is usually an HTML page.
		serverMsg = msgNotFound
	case http.StatusInternalServerError:
		if serverMsg == "" {
			serverMsg = msgServerError
		}
	default:
		if serverMsg == "" {
			serverMsg = msgGeneric
		}
	}
	return &Error{StatusCode: code, Message: serverMsg}
}

// boolQuery renders a query flag in the form the backend parses as boolean.
func boolQuery(v bool) string {
	return strconv.FormatBool(v)
}

// Package client is the HTTP SDK for the BagShop REST API. Authenticated calls
// rely on the credential cookies kept in the client's cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/pkg/circuitbreaker"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const maxResponseBody = 4 << 20 // 4MB

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	// Breaker is shared between clients talking to the same API; nil builds one.
	Breaker *gobreaker.CircuitBreaker[[]byte]
	Logger  *zap.Logger
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
}

// NewBreaker builds the breaker used around API calls; 4xx responses do not count
// as failures.
func NewBreaker(log *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	cfg := circuitbreaker.DefaultConfig("bagshop-api")
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || IsClientError(err) || errors.Is(err, context.Canceled)
	}
	return circuitbreaker.New[[]byte](cfg, log)
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	log := logger.OrNop(opts.Logger)
	breaker := opts.Breaker
	if breaker == nil {
		breaker = NewBreaker(log)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		breaker: breaker,
		log:     log,
	}, nil
}

// Cookies returns the credential cookies currently held for the API host.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.baseURL)
}

func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.Jar.SetCookies(c.baseURL, cookies)
}

// ClearCookies expires every cookie held for the API host.
func (c *Client) ClearCookies() {
	current := c.Cookies()
	expired := make([]*http.Cookie, 0, len(current))
	for _, ck := range current {
		expired = append(expired, &http.Cookie{Name: ck.Name, Path: "/", MaxAge: -1})
	}
	c.http.Jar.SetCookies(c.baseURL, expired)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
	}

	requestID := uuid.NewString()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, u.String(), requestID, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
		}
		logger.WithContext(ctx, c.log).Debug("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response failed: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, rawURL, requestID string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage extracts the server's message from {"message": ...} or {"error": ...}.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Package apiclient is a Go client for the storefront admin API. It keeps the
// access token in memory only and lets a cookie jar carry the HttpOnly refresh
// cookie, renewing the access token once when a call comes back 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second

	refreshEndpoint = "/api/auth/admin/refresh"
)

// Client is safe for concurrent use. Concurrent calls that hit a 401 each
// refresh on their own and the last token written wins.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A cookie jar is added
// when the client has none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, option := range options {
		option(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[apiclient.New] cookie jar")
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

func (c *Client) SetAccessToken(accessToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// Do sends a JSON request and decodes the JSON response into out, which may be
// nil. A 401 triggers exactly one refresh and, if that succeeds, exactly one
// retry whose outcome is returned as is. A failed refresh clears the access
// token and returns ErrUnauthorized.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		discard(resp)
		if _, err := c.Refresh(ctx); err != nil {
			log.Debug().Err(err).Str("endpoint", endpoint).Msg("session refresh failed")
			c.SetAccessToken("")
			return ErrUnauthorized
		}
		resp, err = c.send(ctx, method, endpoint, payload)
		if err != nil {
			return err
		}
	}
	return decodeResponse(resp, out)
}

// Refresh exchanges the refresh cookie for a new access token and stores it.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, refreshEndpoint, nil)
	if err != nil {
		return "", err
	}
	var env envelope[struct {
		AccessToken string `json:"accessToken"`
	}]
	if err := decodeResponse(resp, &env); err != nil {
		return "", err
	}
	if env.Data.AccessToken == "" {
		return "", errors.New("[apiclient.Refresh] empty access token")
	}
	c.SetAccessToken(env.Data.AccessToken)
	return env.Data.AccessToken, nil
}

// doOnce sends a request without the refresh protocol. Used by the auth
// endpoints, where a 401 is a final answer.
func (c *Client) doOnce(ctx context.Context, method, endpoint string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "[apiclient] build %s %s", method, endpoint)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken := c.AccessToken(); accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[apiclient] %s %s", method, endpoint)
	}
	return resp, nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[apiclient] encode body")
	}
	return payload, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[apiclient] read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := defaultErrorMessage
		var failure envelope[json.RawMessage]
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			message = failure.Error
		}
		return &RequestError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "[apiclient] decode response")
	}
	return nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// Package apiclient is the single seam through which every request to the
// MindEase REST backend passes. Authenticated calls attach the stored bearer
// token and perform exactly one refresh-and-retry cycle on a 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/tokenstore"
)

// TokenSource is the device-scoped token storage seen by the client. Save is
// only invoked from the refresh path; login and OTP flows hand the session
// payload back to the caller instead.
type TokenSource interface {
	Load(ctx context.Context) (tokenstore.Tokens, error)
	Save(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithTokens returns a client bound to one device's token storage. The
// underlying HTTP client is shared.
func (c *Client) WithTokens(ts TokenSource) *Client {
	bound := *c
	bound.tokens = ts
	return &bound
}

// do performs an unauthenticated request.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, err := c.send(ctx, method, path, query, body, out, "")
	return err
}

// doAuth performs an authenticated request with the single refresh-retry
// cycle. A 401 on the retried request is reported as a plain RequestError.
func (c *Client) doAuth(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.tokens == nil {
		return ErrUnauthenticated
	}
	t, err := c.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if !t.Present() {
		return ErrUnauthenticated
	}

	status, err := c.send(ctx, method, path, query, body, out, t.Access)
	if status != http.StatusUnauthorized {
		return err
	}

	if err := c.refreshOnce(ctx, t); err != nil {
		return err
	}
	t, err = c.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	_, err = c.send(ctx, method, path, query, body, out, t.Access)
	return err
}

// refreshOnce exchanges the refresh token for a new access token and
// persists it. Any failure clears the store and collapses to
// ErrSessionExpired.
func (c *Client) refreshOnce(ctx context.Context, t tokenstore.Tokens) error {
	l := logging.FromContext(ctx).With("svc", "apiclient.refresh")

	if t.Refresh == "" {
		_ = c.tokens.Clear(ctx)
		return ErrSessionExpired
	}

	var res struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	_, err := c.send(ctx, http.MethodPost, "/token/refresh/", nil,
		map[string]string{"refresh": t.Refresh}, &res, "")
	if err != nil || res.Access == "" {
		l.Warn("refresh_failed", "error", err)
		_ = c.tokens.Clear(ctx)
		return ErrSessionExpired
	}

	refresh := t.Refresh
	if res.Refresh != "" {
		refresh = res.Refresh
	}
	if err := c.tokens.Save(ctx, res.Access, refresh); err != nil {
		return fmt.Errorf("save refreshed tokens: %w", err)
	}
	return nil
}

// send builds and executes one HTTP request. On 2xx the body is decoded into
// out; on any other status the returned error is a *RequestError. Transport
// failures map to ErrNetworkUnavailable.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, bearer string) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &RequestError{
			Status:  resp.StatusCode,
			Message: serverMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "request failed"
}

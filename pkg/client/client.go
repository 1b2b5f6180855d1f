// Package client provides a typed HTTP client SDK for the linkshelf API.
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

	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/types"
)

const (
	defaultTimeout = 30 * time.Second
	bookmarksPath  = "/api/bookmarks"
	authPath       = "/api/auth"

	// SessionCookie carries the admin session marker.
	SessionCookie = "admin"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the root URL of the server (for example: http://localhost:8080).
	BaseURL string
	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration
	// HTTPClient overrides the transport. Its Jar is replaced when nil so the
	// session marker survives between calls.
	HTTPClient *http.Client
}

// Client is the typed HTTP SDK for the bookmarks and auth APIs.
type Client struct {
	http    *http.Client
	baseURL string
	root    *url.URL
}

// New creates a client with its own cookie jar.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	root, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
		if hc.Timeout == 0 {
			hc.Timeout = defaultTimeout
		}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	return &Client{http: hc, baseURL: baseURL, root: root}, nil
}

// SessionToken returns the admin session marker held by the cookie jar, or
// "" when there is none.
func (c *Client) SessionToken() string {
	for _, ck := range c.http.Jar.Cookies(c.root) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken restores a marker saved from an earlier SessionToken call.
func (c *Client) SetSessionToken(token string) {
	c.http.Jar.SetCookies(c.root, []*http.Cookie{{Name: SessionCookie, Value: token, Path: "/"}})
}

// List returns the collection in display order. The server seeds an empty
// collection before answering.
func (c *Client) List(ctx context.Context) ([]types.Bookmark, error) {
	var out []types.Bookmark
	if err := c.do(ctx, http.MethodGet, bookmarksPath, nil, &out); err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	return out, nil
}

// Reset clears the collection and returns the reseeded default set.
func (c *Client) Reset(ctx context.Context) ([]types.Bookmark, error) {
	var out []types.Bookmark
	if err := c.do(ctx, http.MethodGet, bookmarksPath+"?reset=1", nil, &out); err != nil {
		return nil, fmt.Errorf("resetting bookmarks: %w", err)
	}
	return out, nil
}

// Create appends a record and returns it with its id and rank.
func (c *Client) Create(ctx context.Context, req types.CreateBookmarkRequest) (types.Bookmark, error) {
	var out types.Bookmark
	if err := c.do(ctx, http.MethodPost, bookmarksPath, req, &out); err != nil {
		return types.Bookmark{}, fmt.Errorf("creating bookmark: %w", err)
	}
	return out, nil
}

// Update changes the non-nil fields of req. Requires a session.
func (c *Client) Update(ctx context.Context, req types.UpdateBookmarkRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id required")
	}
	if err := c.do(ctx, http.MethodPatch, bookmarksPath, req, nil); err != nil {
		return fmt.Errorf("updating bookmark %q: %w", req.ID, err)
	}
	return nil
}

// Delete removes a record. Requires a session.
func (c *Client) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id required")
	}
	path := bookmarksPath + "?id=" + url.QueryEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting bookmark %q: %w", id, err)
	}
	return nil
}

// Reorder assigns rank = index to every id.
func (c *Client) Reorder(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	if err := c.do(ctx, http.MethodPut, bookmarksPath, types.ReorderRequest{IDs: ids}, nil); err != nil {
		return fmt.Errorf("reordering bookmarks: %w", err)
	}
	return nil
}

// Login starts an admin session. Wrong credentials return false with no error.
func (c *Client) Login(ctx context.Context, email, password string) (bool, error) {
	err := c.do(ctx, http.MethodPost, authPath, types.LoginRequest{Email: email, Password: password}, nil)
	if err == nil {
		return true, nil
	}
	if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		return false, nil
	}
	return false, fmt.Errorf("logging in: %w", err)
}

// Logout ends the admin session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, authPath, nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// AuthStatus reports whether the current session is privileged.
func (c *Client) AuthStatus(ctx context.Context) (bool, error) {
	var out types.AuthStatus
	if err := c.do(ctx, http.MethodGet, authPath, nil, &out); err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return out.IsAdmin, nil
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStoreUnavailable, "server unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStoreUnavailable, "reading response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decoding response")
	}
	return nil
}

// statusError maps an error response back to a domain error. A code in the
// envelope wins over the status; the description is kept when present.
func statusError(status int, raw []byte) error {
	code := dErrors.FromHTTPStatus(status)
	var eb errorBody
	msg := http.StatusText(status)
	if err := json.Unmarshal(raw, &eb); err == nil {
		if known(dErrors.Code(eb.Error)) {
			code = dErrors.Code(eb.Error)
		}
		if eb.Description != "" {
			msg = eb.Description
		}
	}
	return dErrors.Wrap(errors.New(strings.TrimSpace(string(raw))), code, msg)
}

func known(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeNotFound, dErrors.CodeUnauthorized,
		dErrors.CodeStoreUnavailable, dErrors.CodeInternal:
		return true
	}
	return false
}

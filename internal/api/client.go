// Package api provides the HTTP client binding for the Atomx API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/atomx/atomx-cli/internal/auth"
	"github.com/atomx/atomx-cli/internal/config"
	"github.com/atomx/atomx-cli/internal/output"
	"github.com/atomx/atomx-cli/internal/version"
)

// Client is an HTTP client for the Atomx API. The endpoint descriptor is
// rebuilt from cfg for every request, so configuration overrides applied
// between calls (flags, buffer extraction) take effect immediately.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	session    *auth.Session
	store      *auth.Store
	logger     *slog.Logger
}

// LoginResult is the parsed body of a successful login exchange.
type LoginResult struct {
	Token   string
	Message string
	User    json.RawMessage
}

// NewClient creates a new API client. store may be nil, in which case only
// explicitly configured credentials are used for login.
func NewClient(cfg *config.Config, session *auth.Session, store *auth.Store) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cfg:     cfg,
		session: session,
		store:   store,
	}
}

// SetLogger installs a logger for request tracing. Nil disables tracing.
func (c *Client) SetLogger(l *slog.Logger) {
	c.logger = l
}

func (c *Client) debugf(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// Session returns the client's auth session.
func (c *Client) Session() *auth.Session {
	return c.session
}

// ResolveCredentials returns the effective email/password for a domain.
// Explicit configuration wins; the credential store keyed by domain fills
// whichever of the two is missing. Neither source resolving is a
// configuration error, raised before any network I/O.
func (c *Client) ResolveCredentials(domain string) (email, password string, err error) {
	email, password = c.cfg.Email, c.cfg.Password
	if (email == "" || password == "") && c.store != nil {
		storedEmail, storedPassword := c.store.Lookup(domain)
		if email == "" {
			email = storedEmail
		}
		if password == "" {
			password = storedPassword
		}
	}
	if email == "" || password == "" {
		return "", "", output.ErrConfigHint(
			fmt.Sprintf("No credentials for %s", domain),
			"Set email/password in config or run: atomx creds set --domain "+domain,
		)
	}
	return email, password, nil
}

// Login performs the credential exchange and stores the returned token in
// the session. The previous token, if any, is left untouched on failure.
func (c *Client) Login(ctx context.Context) (*LoginResult, error) {
	ep := c.cfg.Endpoint()

	email, password, err := c.ResolveCredentials(ep.Domain)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	url := ep.URL("login")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	setHeaders(req)

	c.debugf("login", "url", url, "email", email)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.debugf("login response", "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &output.Error{
			Code:       output.CodeAuth,
			Message:    "Login rejected",
			Hint:       serverMessage(respBody),
			HTTPStatus: resp.StatusCode,
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apiError(resp.StatusCode, respBody)
	}

	var lr struct {
		User      json.RawMessage `json:"user"`
		Message   string          `json:"message"`
		AuthToken string          `json:"auth_token"`
	}
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return nil, output.ErrPayload("login response is not a JSON object")
	}
	if lr.AuthToken == "" {
		return nil, output.ErrPayload(`login response carries no "auth_token"`)
	}

	c.session.SetToken(lr.AuthToken)

	return &LoginResult{
		Token:   lr.AuthToken,
		Message: lr.Message,
		User:    lr.User,
	}, nil
}

// Logout clears the session token. Purely local; the server keeps no
// session state beyond the token itself.
func (c *Client) Logout() {
	c.session.Clear()
}

// Get fetches a model, optionally narrowed by slug path segments, and
// returns the unwrapped payload. The current session token is sent as-is,
// empty or not; rejecting unauthenticated requests is the server's job.
// The session is never mutated.
func (c *Client) Get(ctx context.Context, model string, slug ...string) (json.RawMessage, error) {
	url := c.cfg.Endpoint().URL(model, slug...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+c.session.Token())

	c.debugf("get", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.debugf("get response", "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, output.ErrAuth("Authentication failed")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apiError(resp.StatusCode, respBody)
	}

	return unwrapEnvelope(respBody)
}

// unwrapEnvelope decodes a response envelope, reads the "resource"
// discriminant, and returns the payload stored under that name within the
// same object. A missing discriminant or payload is a payload shape error,
// never an empty result.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, output.ErrPayload("response is not a JSON object")
	}

	rawName, ok := env["resource"]
	if !ok {
		return nil, output.ErrPayload(`response has no "resource" field`)
	}

	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		return nil, output.ErrPayload(`response "resource" field is not a string`)
	}

	payload, ok := env[name]
	if !ok {
		return nil, output.ErrPayload(fmt.Sprintf("response names resource %q but carries no such field", name))
	}
	return payload, nil
}

// setHeaders applies the standard request headers. Login and fetch send the
// identical set.
func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return ""
}

func apiError(status int, body []byte) *output.Error {
	if msg := serverMessage(body); msg != "" {
		return output.ErrAPI(status, msg)
	}
	return output.ErrAPI(status, fmt.Sprintf("Request failed (HTTP %d)", status))
}

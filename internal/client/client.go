// Package client is the data layer behind the dashboard pages and modals.
//
// Every operation follows the same contract: validate input locally, fetch a
// fresh backend token from the relay, then call the backend either directly
// with that token as a bearer credential or through one of the relay's proxy
// routes. Tokens are never cached between operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
)

// Config points the client at the relay and the backend.
type Config struct {
	// OriginURL is the relay, including its base path.
	OriginURL string
	// BackendURL is the external backend for direct calls.
	BackendURL string
	// Transport is the base round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client runs data-fetch operations. It is safe for concurrent use; state that
// belongs to one signed-in user lives in a Session.
type Client struct {
	origin    string
	backend   string
	transport http.RoundTripper
	validate  *validator.Validate
}

func New(cfg Config) (*Client, error) {
	if cfg.OriginURL == "" || cfg.BackendURL == "" {
		return nil, errors.New("client: origin and backend urls are required")
	}
	t := cfg.Transport
	if t == nil {
		t = http.DefaultTransport
	}
	return &Client{
		origin:    strings.TrimRight(cfg.OriginURL, "/"),
		backend:   strings.TrimRight(cfg.BackendURL, "/"),
		transport: t,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Session is one signed-in user. It carries the relay's session cookie and is
// passed explicitly to every operation.
type Session struct {
	User   SessionUser
	origin *http.Client
}

type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *Client) newSession() (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{origin: &http.Client{Jar: jar, Transport: c.transport}}, nil
}

// SignIn exchanges credentials at the relay and returns the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	req := dtos.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.validate.Struct(req); err != nil {
		return nil, apierr.Validation("Please enter a valid email and password")
	}
	return c.establish(ctx, "/api/auth/login", req, "Invalid email or password")
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, email, password, name string) (*Session, error) {
	req := dtos.RegisterRequest{Email: strings.TrimSpace(email), Password: password, Name: strings.TrimSpace(name)}
	if err := c.validate.Struct(req); err != nil {
		return nil, apierr.Validation("Please enter a valid email and password")
	}
	return c.establish(ctx, "/api/auth/register", req, "Registration failed")
}

// SignOut clears the relay session.
func (c *Client) SignOut(ctx context.Context, sess *Session) error {
	_, err := c.originDo(ctx, sess, http.MethodPost, "/api/auth/logout", nil, "Sign out failed")
	return err
}

func (c *Client) establish(ctx context.Context, path string, payload any, fallback string) (*Session, error) {
	sess, err := c.newSession()
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	data, err := c.originDo(ctx, sess, http.MethodPost, path, body, fallback)
	if err != nil {
		return nil, err
	}
	var out struct {
		User SessionUser `json:"user"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apierr.Unexpected(err)
	}
	sess.User = out.User
	return sess, nil
}

// originDo calls a relay route with the session cookie.
func (c *Client) originDo(ctx context.Context, sess *Session, method, path string, body []byte, fallback string) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.origin+path, r)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return send(sess.origin, req, fallback)
}

func send(hc *http.Client, req *http.Request, fallback string) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.Rejected(resp.StatusCode, data, fallback)
	}
	return data, nil
}

// decodeList accepts either a bare JSON array or an object holding the array
// under key.
func decodeList[T any](data []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	raw, ok := wrapped[key]
	if !ok || string(raw) == "null" {
		return []T{}, nil
	}
	var items []T
	err := json.Unmarshal(raw, &items)
	return items, err
}

// companyOrUnknown is what the add-job form sends when company is blank.
func companyOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return s
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"golang.org/x/oauth2"
)

// Per call type timeouts. Proxied routes mirror the relay's own bounds.
const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	generationTimeout = 90 * time.Second
	statusTimeout     = 10 * time.Second
	testTimeout       = 15 * time.Second
	submitTimeout     = 30 * time.Second
)

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	timeout     time.Duration
	fallback    string
}

func jsonRequest(method, path string, payload any, timeout time.Duration, fallback string) (request, error) {
	r := request{method: method, path: path, timeout: timeout, fallback: fallback}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return r, apierr.Unexpected(err)
		}
		r.body = b
		r.contentType = "application/json"
	}
	return r, nil
}

// exec runs fn under op, or under a throwaway op when op is nil.
func (c *Client) exec(ctx context.Context, sess *Session, op *Op, fn func(context.Context, *oauth2.Token) error) error {
	if op == nil {
		op = NewOp("")
	}
	return op.run(ctx, c.mint(sess), fn)
}

// direct calls the backend with tok as the bearer credential and decodes the
// response into out when out is non-nil.
func (c *Client) direct(ctx context.Context, tok *oauth2.Token, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	target := c.backend + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := newRequest(ctx, r, target)
	if err != nil {
		return err
	}
	data, err := send(c.backendHTTP(tok), req, r.fallback)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// proxied calls a relay proxy route. The relay mints its own token from the
// session cookie.
func (c *Client) proxied(ctx context.Context, sess *Session, r request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	target := c.origin + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := newRequest(ctx, r, target)
	if err != nil {
		return err
	}
	data, err := send(sess.origin, req, r.fallback)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

func newRequest(ctx context.Context, r request, target string) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeInto(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierr.Unexpected(err)
	}
	return nil
}

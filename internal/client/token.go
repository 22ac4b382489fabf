package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"golang.org/x/oauth2"
)

// MsgAuthFailed is shown when no backend token can be obtained.
const MsgAuthFailed = "Authentication failed. Please try logging in again."

// relayTokenSource mints a new backend token at the relay on every Token call.
// It must not be wrapped in oauth2.ReuseTokenSource.
type relayTokenSource struct {
	ctx    context.Context
	client *Client
	sess   *Session
}

var _ oauth2.TokenSource = relayTokenSource{}

// TokenSource returns a source that asks the relay for a fresh token per call.
func (c *Client) TokenSource(ctx context.Context, sess *Session) oauth2.TokenSource {
	return relayTokenSource{ctx: ctx, client: c, sess: sess}
}

func (s relayTokenSource) Token() (*oauth2.Token, error) {
	if s.sess == nil {
		return nil, apierr.Unauthenticated(MsgAuthFailed, errors.New("client: no session"))
	}
	data, err := s.client.originDo(s.ctx, s.sess, http.MethodGet, "/api/auth/token", nil, "Failed to get token")
	if err != nil {
		e, ok := apierr.As(err)
		if ok && e.Kind == apierr.KindBackendRejected {
			if e.Status == http.StatusUnauthorized {
				return nil, apierr.Unauthenticated(MsgAuthFailed, err)
			}
			return nil, apierr.MintFailure(e.Message, err)
		}
		return nil, err
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, apierr.MintFailure("Failed to get token", err)
	}
	// the user id is never an acceptable stand-in for a token
	if body.Token == "" {
		return nil, apierr.Unauthenticated(MsgAuthFailed, errors.New("client: relay returned an empty token"))
	}
	return &oauth2.Token{AccessToken: body.Token, TokenType: "Bearer"}, nil
}

func (c *Client) mint(sess *Session) func(context.Context) (*oauth2.Token, error) {
	return func(ctx context.Context) (*oauth2.Token, error) {
		return c.TokenSource(ctx, sess).Token()
	}
}

// backendHTTP returns a client that attaches tok to every request.
func (c *Client) backendHTTP(tok *oauth2.Token) *http.Client {
	return &http.Client{Transport: &oauth2.Transport{
		Source: oauth2.StaticTokenSource(tok),
		Base:   c.transport,
	}}
}
